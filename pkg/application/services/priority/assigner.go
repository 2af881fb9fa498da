// Package priority implements the Priority Assigner (§4.8): partitioning scheduled
// operations by work center and ranking them within each bucket by start date, job
// priority, and deadline urgency. The multi-key comparator is grounded on the
// teacher's CriticalPathAnalyzer sort (primary/secondary/tertiary sort.Slice keys).
package priority

import (
	"sort"

	"github.com/vsinha/opsched/pkg/domain/entities"
)

// nullWorkCenter is the bucket key used for operations with no assigned work center
// (§4.8: "treating null as its own bucket").
const nullWorkCenter entities.WorkCenterID = ""

// Assign partitions ops by WorkCenterID (nil treated as its own bucket), sorts each
// bucket per §4.8's three-key ordering, and assigns priorities 1, 2, 3, … within each
// bucket, mutating ops in place.
func Assign(ops []*entities.ScheduledOperation) {
	buckets := make(map[entities.WorkCenterID][]*entities.ScheduledOperation)
	var bucketOrder []entities.WorkCenterID

	for _, op := range ops {
		key := nullWorkCenter
		if op.WorkCenterID != nil {
			key = *op.WorkCenterID
		}
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], op)
	}

	for _, key := range bucketOrder {
		bucket := buckets[key]
		sort.SliceStable(bucket, func(i, j int) bool {
			return less(bucket[i], bucket[j])
		})
		for i, op := range bucket {
			op.Priority = i + 1
		}
	}
}

// less implements the §4.8 ordering: start date ascending (nulls last), job priority
// ascending (null -> 0), then deadline type by the fixed ASAP < Hard < Soft < No
// ranking (null -> No Deadline).
func less(a, b *entities.ScheduledOperation) bool {
	if a.StartDate.IsZero() != b.StartDate.IsZero() {
		return b.StartDate.IsZero()
	}
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.Before(b.StartDate)
	}

	ap, bp := jobPriority(a), jobPriority(b)
	if ap != bp {
		return ap < bp
	}

	return entities.Rank(a.Operation.DeadlineType) < entities.Rank(b.Operation.DeadlineType)
}

func jobPriority(op *entities.ScheduledOperation) int {
	if op.Operation.JobPriority == nil {
		return 0
	}
	return *op.Operation.JobPriority
}

// CalculateFractionalPriority returns the midpoint priority between before and after,
// for mid-insertion outside the batch flow (§4.8).
func CalculateFractionalPriority(before, after float64) float64 {
	return (before + after) / 2
}
