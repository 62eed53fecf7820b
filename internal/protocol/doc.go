// Package protocol encodes Centronic transmitter frames.
//
// A frame is built in two pure steps. Encode packs the channel, the unit id,
// the unit's current rolling counter and an opcode into a 40 character hex
// payload. Finalize appends the checksum and wraps the payload in STX/ETX so
// it can be written to the stick as-is.
//
// Neither step mutates the unit. Callers advance the counter after every
// transmitted frame so each frame carries a strictly greater value.
package protocol
