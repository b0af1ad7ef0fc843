// Package board keeps a client-side view of one project's tasks grouped
// into the three columns and reconciles it with the authoritative store
// across asynchronous status mutations. Moves apply locally first
// (optimistic) and roll back if persistence fails; a reload replaces the
// whole collection, last snapshot wins.
package board

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
)

var (
	ErrDragInProgress = errors.New("board: another drag is already active")
	ErrNoActiveDrag   = errors.New("board: task is not the active drag subject")
	ErrUnknownTask    = errors.New("board: task not on this board")
	ErrTaskInert      = errors.New("board: task is soft-deleted")
)

// RemoteStore is the persistence port for status transitions.
type RemoteStore interface {
	UpdateStatus(ctx context.Context, taskID uint64, status models.TaskStatus) error
}

// MutationState tracks a pending status transition.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationConfirmed
	MutationRolledBack
)

// Mutation is the handle for one in-flight status transition.
type Mutation struct {
	ID     string
	TaskID uint64
	From   models.TaskStatus
	To     models.TaskStatus

	mu    sync.Mutex
	state MutationState
	err   error
	done  chan struct{}
}

// Wait blocks until the store confirmed or rejected the mutation.
func (m *Mutation) Wait() {
	<-m.done
}

// State returns the mutation's state and, for a rolled-back mutation, the
// store error that caused it.
func (m *Mutation) State() (MutationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

func (m *Mutation) resolve(state MutationState, err error) {
	m.mu.Lock()
	m.state = state
	m.err = err
	m.mu.Unlock()
	close(m.done)
}

// Board is the in-memory task collection for one project.
type Board struct {
	mu    sync.Mutex
	store RemoteStore
	log   *logger.Logger

	// tasks holds the local collection in snapshot order (newest first
	// as loaded). persisted maps task id to the status last confirmed by
	// the authoritative store.
	tasks     []models.Task
	persisted map[uint64]models.TaskStatus

	activeDrag uint64
	dragOrigin models.TaskStatus

	pending map[string]*Mutation
}

// New creates a board backed by the given store.
func New(store RemoteStore, log *logger.Logger) *Board {
	return &Board{
		store:     store,
		log:       log,
		persisted: make(map[uint64]models.TaskStatus),
		pending:   make(map[string]*Mutation),
	}
}

// Reconcile replaces the local collection wholesale with an authoritative
// snapshot. There is no merge: speculative state not yet confirmed is
// discarded and pending mutations are forgotten as superseded.
func (b *Board) Reconcile(snapshot []models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tasks = make([]models.Task, len(snapshot))
	copy(b.tasks, snapshot)

	b.persisted = make(map[uint64]models.TaskStatus, len(snapshot))
	for _, t := range snapshot {
		b.persisted[t.ID] = t.Status
	}
	b.pending = make(map[string]*Mutation)
}

// Tasks returns a copy of the local collection.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Column returns the tasks currently shown in a column, in collection
// order. Sibling order within a column is insertion-derived; the board
// persists status only.
func (b *Board) Column(status models.TaskStatus) []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Task
	for _, t := range b.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// ActiveDrag returns the current drag subject, if any.
func (b *Board) ActiveDrag() (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeDrag, b.activeDrag != 0
}

// BeginDrag marks a task as the drag subject. At most one task may be
// dragged at a time, and a soft-deleted task cannot be dragged at all.
// Status is not mutated here.
func (b *Board) BeginDrag(taskID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.activeDrag != 0 {
		return ErrDragInProgress
	}
	task := b.find(taskID)
	if task == nil {
		return ErrUnknownTask
	}
	if task.IsSoftDeleted {
		return ErrTaskInert
	}

	b.activeDrag = taskID
	// The origin is the status as persisted before the drag, not whatever
	// the local view currently shows.
	if st, ok := b.persisted[taskID]; ok {
		b.dragOrigin = st
	} else {
		b.dragOrigin = task.Status
	}
	return nil
}

// DragOver speculatively moves the drag subject into the hovered column.
// The change is local and uncommitted; repeated calls converge on the last
// hovered target.
func (b *Board) DragOver(taskID uint64, target string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.activeDrag != taskID {
		return ErrNoActiveDrag
	}
	task := b.find(taskID)
	if task == nil {
		return ErrUnknownTask
	}

	status, ok := b.resolveTarget(target)
	if !ok || task.Status == status {
		return nil
	}
	task.Status = status
	return nil
}

// EndDrag finalizes the drag. The drag marker is cleared unconditionally,
// even when no destination resolves (cancelled drag). If the resolved
// column differs from the status persisted before the drag started, the
// local collection is updated immediately and the store call is issued in
// parallel; the returned Mutation tracks its outcome. A nil Mutation means
// nothing needed persisting.
func (b *Board) EndDrag(ctx context.Context, taskID uint64, target string) (*Mutation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.activeDrag != taskID {
		return nil, ErrNoActiveDrag
	}
	b.activeDrag = 0

	task := b.find(taskID)
	if task == nil {
		return nil, ErrUnknownTask
	}

	status, ok := b.resolveTarget(target)
	if !ok {
		// Cancelled: put a speculatively moved task back where the
		// store last saw it.
		task.Status = b.dragOrigin
		return nil, nil
	}

	task.Status = status
	if status == b.dragOrigin {
		return nil, nil
	}

	m := &Mutation{
		ID:     uuid.NewString(),
		TaskID: taskID,
		From:   b.dragOrigin,
		To:     status,
		done:   make(chan struct{}),
	}
	b.pending[m.ID] = m

	go b.persist(ctx, m)
	return m, nil
}

// PendingMutations returns the in-flight mutations, for surfacing
// indicators.
func (b *Board) PendingMutations() []*Mutation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Mutation, 0, len(b.pending))
	for _, m := range b.pending {
		out = append(out, m)
	}
	return out
}

func (b *Board) persist(ctx context.Context, m *Mutation) {
	err := b.store.UpdateStatus(ctx, m.TaskID, m.To)

	b.mu.Lock()
	if _, ok := b.pending[m.ID]; !ok {
		// A reload landed while the call was in flight. The snapshot is
		// newer than this outcome, so the board is left alone either way.
		b.mu.Unlock()
		if err != nil {
			m.resolve(MutationRolledBack, err)
		} else {
			m.resolve(MutationConfirmed, nil)
		}
		return
	}
	if err != nil {
		// Roll back to the last authoritative status instead of leaving
		// the optimistic move in place.
		if task := b.find(m.TaskID); task != nil {
			if st, ok := b.persisted[m.TaskID]; ok {
				task.Status = st
			}
		}
		b.log.Warnw("status move rejected, rolled back",
			"task_id", m.TaskID, "from", m.From, "to", m.To, "error", err)
	} else {
		b.persisted[m.TaskID] = m.To
	}
	delete(b.pending, m.ID)
	b.mu.Unlock()

	if err != nil {
		m.resolve(MutationRolledBack, err)
	} else {
		m.resolve(MutationConfirmed, nil)
	}
}

// resolveTarget maps a drop target to a column: either a column name or
// the id of a task already on the board, in which case that task's current
// column wins. Callers hold b.mu.
func (b *Board) resolveTarget(target string) (models.TaskStatus, bool) {
	if status, ok := models.ParseTaskStatus(target); ok {
		return status, true
	}
	id, err := strconv.ParseUint(target, 10, 64)
	if err != nil {
		return "", false
	}
	if task := b.find(id); task != nil {
		return task.Status, true
	}
	return "", false
}

// find returns a pointer into the local collection. Callers hold b.mu.
func (b *Board) find(taskID uint64) *models.Task {
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			return &b.tasks[i]
		}
	}
	return nil
}
