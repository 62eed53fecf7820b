package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bft-labs/centronic/internal/domain"
)

const unitFileName = "units.json"

// DummyUnitID is the id of the placeholder unit created by InitDummy.
const DummyUnitID = 1

// unitRecord is the persisted form of a domain.Unit.
type unitRecord struct {
	ID      int    `json:"id"`
	Counter uint64 `json:"counter"`
	Paired  bool   `json:"paired"`
}

type unitFile struct {
	Units []unitRecord `json:"units"`
}

// UnitFileRepository implements ports.UnitRepository using a JSON file.
// It assumes a single writer.
type UnitFileRepository struct {
	dir string
}

// NewUnitFileRepository creates a new UnitFileRepository for the given directory.
func NewUnitFileRepository(dir string) *UnitFileRepository {
	return &UnitFileRepository{dir: dir}
}

// Get returns the unit with the given id.
func (r *UnitFileRepository) Get(ctx context.Context, id int) (domain.Unit, error) {
	f, err := r.load()
	if err != nil {
		return domain.Unit{}, err
	}
	for _, rec := range f.Units {
		if rec.ID == id {
			return rec.toUnit(), nil
		}
	}
	return domain.Unit{}, fmt.Errorf("%w: %d", domain.ErrUnitNotFound, id)
}

// GetAll returns every stored unit ordered by id.
func (r *UnitFileRepository) GetAll(ctx context.Context) ([]domain.Unit, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	units := make([]domain.Unit, 0, len(f.Units))
	for _, rec := range f.Units {
		units = append(units, rec.toUnit())
	}
	return units, nil
}

// Set inserts or updates the unit. With dryRun nothing is written.
// A counter lower than the stored one is rejected.
func (r *UnitFileRepository) Set(ctx context.Context, unit domain.Unit, dryRun bool) error {
	if dryRun {
		return nil
	}

	f, err := r.load()
	if err != nil {
		return err
	}

	rec := unitRecord{ID: unit.ID(), Counter: unit.Counter(), Paired: unit.Paired()}
	replaced := false
	for i, old := range f.Units {
		if old.ID != rec.ID {
			continue
		}
		stored := old.toUnit()
		if err := stored.SyncCounter(rec.Counter); err != nil {
			return err
		}
		rec.Counter = stored.Counter()
		f.Units[i] = rec
		replaced = true
		break
	}
	if !replaced {
		f.Units = append(f.Units, rec)
	}

	return r.save(f)
}

// InitDummy seeds the placeholder unit when no unit is stored yet.
func (r *UnitFileRepository) InitDummy(ctx context.Context) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	if len(f.Units) > 0 {
		return nil
	}
	f.Units = append(f.Units, unitRecord{ID: DummyUnitID})
	return r.save(f)
}

// Path returns the full path to the unit file.
func (r *UnitFileRepository) Path() string {
	return filepath.Join(r.dir, unitFileName)
}

// load reads the unit file. A missing file is an empty store.
func (r *UnitFileRepository) load() (unitFile, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return unitFile{}, nil
		}
		return unitFile{}, fmt.Errorf("read units: %w", err)
	}

	var f unitFile
	if err := json.Unmarshal(data, &f); err != nil {
		return unitFile{}, fmt.Errorf("parse %s: %w", r.Path(), err)
	}
	sort.Slice(f.Units, func(i, j int) bool { return f.Units[i].ID < f.Units[j].ID })
	return f, nil
}

// save persists the file atomically and durably.
// Writes to a temp file, syncs it, renames it over the old file and syncs
// the directory so the rename survives a crash.
func (r *UnitFileRepository) save(f unitFile) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	sort.Slice(f.Units, func(i, j int) bool { return f.Units[i].ID < f.Units[j].ID })
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	if err := writeSynced(tmp, data); err != nil {
		return fmt.Errorf("write units: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit units: %w", err)
	}
	return syncDir(r.dir)
}

func writeSynced(path string, data []byte) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Sync(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some filesystems refuse fsync on directories; the rename is already done.
	_ = d.Sync()
	return nil
}

func (rec unitRecord) toUnit() domain.Unit {
	return domain.NewUnit(rec.ID, rec.Counter, rec.Paired)
}
