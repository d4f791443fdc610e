package world

import (
	"github.com/restotycoon/server/internal/core/ecs"
	"github.com/restotycoon/server/internal/data"
)

// Table is a fixed seat. Occupant is zero while the table is free.
type Table struct {
	ID       int
	X, Y     float64
	Occupant ecs.EntityID
}

func (t Table) Free() bool { return t.Occupant.IsZero() }

// TablePool is the fixed set of tables for the session.
type TablePool struct {
	tables []Table
}

func NewTablePool(spots []data.TableSpot) *TablePool {
	p := &TablePool{tables: make([]Table, len(spots))}
	for i, s := range spots {
		p.tables[i] = Table{ID: i, X: s.X, Y: s.Y}
	}
	return p
}

// NearestFree returns the free table closest (squared distance) to (x, y).
// Ties go to the lower table id.
func (p *TablePool) NearestFree(x, y float64) (int, bool) {
	best, bestDist := -1, 0.0
	for _, t := range p.tables {
		if !t.Free() {
			continue
		}
		dx, dy := t.X-x, t.Y-y
		d := dx*dx + dy*dy
		if best < 0 || d < bestDist {
			best, bestDist = t.ID, d
		}
	}
	return best, best >= 0
}

// Assign seats id at table. It fails if the table is taken or id already
// holds another table.
func (p *TablePool) Assign(table int, id ecs.EntityID) bool {
	if table < 0 || table >= len(p.tables) || id.IsZero() {
		return false
	}
	if !p.tables[table].Free() {
		return false
	}
	if _, seated := p.TableOf(id); seated {
		return false
	}
	p.tables[table].Occupant = id
	return true
}

// Free releases a table. Freeing a free table is a no-op.
func (p *TablePool) Free(table int) {
	if table < 0 || table >= len(p.tables) {
		return
	}
	p.tables[table].Occupant = 0
}

func (p *TablePool) FreeAll() {
	for i := range p.tables {
		p.tables[i].Occupant = 0
	}
}

// TableOf finds the table held by id.
func (p *TablePool) TableOf(id ecs.EntityID) (int, bool) {
	for _, t := range p.tables {
		if t.Occupant == id && !id.IsZero() {
			return t.ID, true
		}
	}
	return NoTable, false
}

func (p *TablePool) FreeCount() int {
	n := 0
	for _, t := range p.tables {
		if t.Free() {
			n++
		}
	}
	return n
}

// Tables returns a copy of the pool for read-only use.
func (p *TablePool) Tables() []Table {
	out := make([]Table, len(p.tables))
	copy(out, p.tables)
	return out
}
