// Package manager implements the synchronization engine (spec §4.7): it
// registers table locations, picks the table reachable from this host, and
// reconciles all replicas of every name across the registered tables.
package manager

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/table"
	"github.com/dfsync/dfsync/internal/transport"
	"github.com/dfsync/dfsync/internal/worker"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// DefaultWorkers is the default bound on parallel copies during Update
// (spec §5).
const DefaultWorkers = 4

// Manager is a stateless registry of table locations: tables are re-read
// fresh on every operation (spec §3 "Ownership").
type Manager struct {
	locations []string
	workers   int
}

// New constructs a Manager with the given worker bound for Update. A
// non-positive count falls back to DefaultWorkers.
func New(workers int) *Manager {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Manager{workers: workers}
}

// Register appends location to the set of registered table locations. It
// fails if location is already registered (spec §3 "no duplicate
// locations").
func (m *Manager) Register(location string) error {
	for _, l := range m.locations {
		if l == location {
			return errors.Wrapf(xerrors.FormatError, "location %q already registered", location)
		}
	}
	m.locations = append(m.locations, location)
	return nil
}

// Locations returns the registered locations in registration order.
func (m *Manager) Locations() []string {
	out := make([]string, len(m.locations))
	copy(out, m.locations)
	return out
}

// AvailableTable returns the Table read from the first registered location
// reachable from this host, and that location. Fails with NoLocalReplica
// if none match (spec §4.7).
func (m *Manager) AvailableTable(ctx context.Context) (table.Table, string, error) {
	for _, loc := range m.locations {
		if _, ok := transport.AvailableLocalPath(loc); ok {
			t, err := table.Read(ctx, loc)
			if err != nil {
				return table.Table{}, "", err
			}
			return t, loc, nil
		}
	}
	return table.Table{}, "", errors.Wrap(xerrors.NoLocalReplica, "no registered table is reachable from this host")
}

// loadedTable pairs a registered location with the Table read from it, in
// registration order — the unit reconciliation works against.
type loadedTable struct {
	location string
	t        table.Table
}

// PlannedCopy is one authoritative→replica copy reconciliation would
// perform, without necessarily having executed it yet (the dry-run
// report supplemented per SPEC_FULL.md).
type PlannedCopy struct {
	Name            string
	SourceLocation  string
	SourcePath      string
	DestLocation    string
	DestPath        string
	AuthoritativeAt float64
}

// CopyFailure records one (name, destination) reconciliation copy that
// failed (spec §4.7 "Failure mode").
type CopyFailure struct {
	Name        string
	Destination string
	Err         error
}

// Report summarizes one Update call.
type Report struct {
	Failures []CopyFailure
}

// gather loads every registered table, in registration order (spec §4.7
// step 1, §5 "table load order follows registration order").
func (m *Manager) gather(ctx context.Context) ([]loadedTable, error) {
	loaded := make([]loadedTable, 0, len(m.locations))
	for _, loc := range m.locations {
		t, err := table.Read(ctx, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "reading table at %s", loc)
		}
		loaded = append(loaded, loadedTable{location: loc, t: t})
	}
	return loaded, nil
}

// unionNames computes the union of entry names across loaded tables (spec
// §4.7 step 2).
func unionNames(loaded []loadedTable) []string {
	seen := map[string]bool{}
	var names []string
	for _, lt := range loaded {
		for _, n := range lt.t.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// replicasOf returns, for name, the (tableIndex, FileInfo) pairs across
// loaded for every table that has an entry for it, in registration order.
func replicasOf(loaded []loadedTable, name string) []struct {
	idx int
	fi  table.FileInfo
} {
	var out []struct {
		idx int
		fi  table.FileInfo
	}
	for i, lt := range loaded {
		if fi, ok := lt.t.Get(name); ok {
			out = append(out, struct {
				idx int
				fi  table.FileInfo
			}{i, fi})
		}
	}
	return out
}

// reconcileName applies spec §4.7 step 3 to one name, returning the planned
// copies (possibly none, if already in sync or nothing to copy from).
func reconcileName(loaded []loadedTable, name string) []PlannedCopy {
	replicas := replicasOf(loaded, name)
	if len(replicas) < 2 {
		return nil
	}

	// 3a: refresh replicas reachable as a source from this host.
	for i, r := range replicas {
		if _, ok := transport.AvailableLocalPath(r.fi.Path); ok {
			replicas[i].fi = r.fi.Refresh()
		}
	}

	// 3b: if every fingerprint agrees, already in sync.
	allAgree := true
	first := replicas[0].fi.Marks.Fingerprint
	for _, r := range replicas[1:] {
		if r.fi.Marks.Fingerprint != first {
			allAgree = false
			break
		}
	}
	if allAgree {
		return nil
	}

	// If every replica is the sentinel, there is nothing to copy from
	// (spec §4.7 invariant).
	allSentinel := true
	for _, r := range replicas {
		if !r.fi.Marks.IsSentinel() {
			allSentinel = false
			break
		}
	}
	if allSentinel {
		return nil
	}

	// 3c: authoritative replica = largest timestamp among non-sentinel
	// fingerprints; ties broken by registration order (earlier index wins,
	// since replicas is already in registration order and we use strict
	// '>' below).
	authIdx := -1
	for i, r := range replicas {
		if r.fi.Marks.IsSentinel() {
			continue
		}
		if authIdx == -1 || r.fi.Marks.Timestamp > replicas[authIdx].fi.Marks.Timestamp {
			authIdx = i
		}
	}
	if authIdx == -1 {
		return nil
	}
	authoritative := replicas[authIdx]
	authTable := loaded[authoritative.idx]

	var plans []PlannedCopy
	for _, r := range replicas {
		if r.idx == authoritative.idx {
			continue
		}
		if r.fi.Marks.Equal(authoritative.fi.Marks) {
			continue
		}
		destTable := loaded[r.idx]
		plans = append(plans, PlannedCopy{
			Name:            name,
			SourceLocation:  authTable.location,
			SourcePath:      authoritative.fi.Path,
			DestLocation:    destTable.location,
			DestPath:        r.fi.Path,
			AuthoritativeAt: authoritative.fi.Marks.Timestamp,
		})
	}
	return plans
}

// Plan runs reconciliation (spec §4.7 steps 1–3) without performing any
// transfers, returning what Update would execute. Supplemented per
// SPEC_FULL.md's dry-run feature.
func (m *Manager) Plan(ctx context.Context) ([]PlannedCopy, error) {
	loaded, err := m.gather(ctx)
	if err != nil {
		return nil, err
	}
	var plans []PlannedCopy
	for _, name := range unionNames(loaded) {
		plans = append(plans, reconcileName(loaded, name)...)
	}
	return plans, nil
}

// Update reconciles every registered table: it gathers all tables, computes
// authoritative replicas per name, copies the outdated replicas in
// parallel, then writes back every table that changed (spec §4.7).
func (m *Manager) Update(ctx context.Context) (*Report, error) {
	loaded, err := m.gather(ctx)
	if err != nil {
		return nil, err
	}

	var plans []PlannedCopy
	for _, name := range unionNames(loaded) {
		plans = append(plans, reconcileName(loaded, name)...)
	}
	if len(plans) == 0 {
		return &Report{}, nil
	}

	changed := make([]bool, len(loaded))
	type outcome struct {
		plan PlannedCopy
		err  error
	}

	pool := worker.New(m.workers, m.workers)
	for _, p := range plans {
		p := p
		pool.Submit(func() (any, error) {
			logging.Infof(nil, "copying %s: %s -> %s", p.Name, p.SourcePath, p.DestPath)
			if err := transport.Copy(ctx, p.SourcePath, p.DestPath); err != nil {
				return outcome{plan: p, err: err}, nil
			}
			return outcome{plan: p}, nil
		})
	}
	results, poolErr := pool.Process()
	_ = poolErr // per-copy failures are reported individually below, not via WorkerError

	report := &Report{}
	for r := range results {
		o := r.(outcome)
		if o.err != nil {
			report.Failures = append(report.Failures, CopyFailure{
				Name:        o.plan.Name,
				Destination: o.plan.DestLocation,
				Err:         o.err,
			})
			logging.Errorf(nil, "copy failed for %s -> %s: %v", o.plan.Name, o.plan.DestPath, o.err)
			continue
		}
		for i, lt := range loaded {
			if lt.location != o.plan.DestLocation {
				continue
			}
			destFI, _ := lt.t.Get(o.plan.Name)
			authFI, _ := findPlanSource(loaded, o.plan)
			destFI.Marks = authFI.Marks
			if _, ok := transport.AvailableLocalPath(destFI.Path); ok {
				destFI = destFI.Refresh()
			}
			loaded[i].t = loaded[i].t.Add(destFI)
			changed[i] = true
		}
	}

	for i, lt := range loaded {
		if !changed[i] {
			continue
		}
		if err := table.Write(ctx, lt.t, lt.location, false); err != nil {
			return report, errors.Wrapf(err, "writing back table at %s", lt.location)
		}
	}

	return report, nil
}

func findPlanSource(loaded []loadedTable, p PlannedCopy) (table.FileInfo, bool) {
	for _, lt := range loaded {
		if lt.location != p.SourceLocation {
			continue
		}
		return lt.t.Get(p.Name)
	}
	return table.FileInfo{}, false
}
