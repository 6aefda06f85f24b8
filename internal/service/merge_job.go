package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/store"
	"github.com/ahappyphrog/harmonic-take-home/internal/task"
)

// DefaultMergeBatchSize is the number of memberships written per store round
// trip when no batch size is configured.
const DefaultMergeBatchSize = 100

// TypeCollectionMerge is the job type identifier for collection merges.
const TypeCollectionMerge = "collection_merge"

// MergeJob copies all memberships of a source collection into a target
// collection as a background job, reporting incremental progress through the
// task registry.
//
// The member list is snapshotted once at the start; it is partitioned into
// fixed-size batches, each written in a single idempotent insert-or-ignore
// round trip. Batches are strictly sequential so progress stays monotonic.
// The store's uniqueness constraint on (company_id, collection_id) makes the
// whole operation safely re-runnable: already-present members are skipped
// and counted as duplicates. There is no cancellation; once running, the job
// finishes or fails.
type MergeJob struct {
	taskID          uuid.UUID
	sourceID        uuid.UUID
	targetID        uuid.UUID
	collectionStore store.CollectionStore
	registry        *task.Registry
	batchSize       int
	logger          *slog.Logger
}

// Ensure MergeJob implements task.Job
var _ task.Job = (*MergeJob)(nil)

// NewMergeJob creates a merge job for an already-created task.
// The task must have been created with its total seeded from the source
// collection's member count.
func NewMergeJob(
	taskID, sourceID, targetID uuid.UUID,
	collectionStore store.CollectionStore,
	registry *task.Registry,
	batchSize int,
	logger *slog.Logger,
) *MergeJob {
	if batchSize <= 0 {
		batchSize = DefaultMergeBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MergeJob{
		taskID:          taskID,
		sourceID:        sourceID,
		targetID:        targetID,
		collectionStore: collectionStore,
		registry:        registry,
		batchSize:       batchSize,
		logger: logger.With(
			slog.String("component", "merge_job"),
			slog.String("task_id", taskID.String())),
	}
}

// ID returns the ID of the task this job reports through.
func (j *MergeJob) ID() uuid.UUID {
	return j.taskID
}

// Type returns the job type identifier.
func (j *MergeJob) Type() string {
	return TypeCollectionMerge
}

// Execute runs the merge. Every failure path, including a panic, leaves the
// task in a terminal state so pollers are never left waiting indefinitely.
// Batches committed before a failure stay committed; re-running the merge
// re-attempts only the remaining work.
func (j *MergeJob) Execute(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			j.fail(fmt.Sprintf("merge panicked: %v", p))
			err = fmt.Errorf("merge panicked: %v", p)
		}
	}()

	j.registry.Update(j.taskID, task.UpdateParams{
		Status:  task.StatusPtr(task.StatusInProgress),
		Current: task.IntPtr(0),
	})

	// The task's total was fixed at request time from the same source; the
	// snapshot taken here may have drifted since then, which is accepted.
	total := 0
	if t, ok := j.registry.Get(j.taskID); ok && t.Progress != nil {
		total = t.Progress.Total
	}

	memberIDs, err := j.collectionStore.ListMemberIDs(ctx, j.sourceID)
	if err != nil {
		j.fail(fmt.Sprintf("failed to load source members: %v", err))
		return err
	}

	var totalAdded int64
	for start := 0; start < len(memberIDs); start += j.batchSize {
		end := start + j.batchSize
		if end > len(memberIDs) {
			end = len(memberIDs)
		}

		inserted, err := j.collectionStore.AddMembers(ctx, j.targetID, memberIDs[start:end])
		if err != nil {
			j.fail(fmt.Sprintf("failed to insert batch: %v", err))
			return err
		}
		totalAdded += inserted

		current := end
		if current > total {
			current = total
		}
		j.registry.Update(j.taskID, task.UpdateParams{
			Current: task.IntPtr(current),
		})
	}

	duplicates := int64(len(memberIDs)) - totalAdded
	j.registry.Update(j.taskID, task.UpdateParams{
		Status:  task.StatusPtr(task.StatusCompleted),
		Current: task.IntPtr(len(memberIDs)),
		Message: task.StringPtr(fmt.Sprintf(
			"%d companies added (%d duplicates skipped)", totalAdded, duplicates)),
	})

	j.logger.Info("merge completed",
		slog.Int("members_seen", len(memberIDs)),
		slog.Int64("added", totalAdded),
		slog.Int64("duplicates", duplicates))

	return nil
}

// fail records a terminal failure on the task.
func (j *MergeJob) fail(detail string) {
	j.registry.Update(j.taskID, task.UpdateParams{
		Status: task.StatusPtr(task.StatusFailed),
		Error:  task.StringPtr(detail),
	})
}
