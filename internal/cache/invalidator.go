package cache

import "context"

// Invalidator is the single write-wrapper for cache invalidation: every
// service write path calls exactly one method here after its transaction
// commits, and the method knows both the canonical key and every aggregate
// key that resource touches. Handlers never delete keys directly.
type Invalidator struct {
	cache *Cache
}

func NewInvalidator(c *Cache) *Invalidator {
	return &Invalidator{cache: c}
}

// Batch invalidates one batch's detail entry plus the list-all aggregate.
func (i *Invalidator) Batch(ctx context.Context, id int64) {
	i.cache.Invalidate(ctx, KeyBatchesAll, KeyBatch(id))
}

// BatchDeleted additionally clears the batch's schedule and roster entries.
func (i *Invalidator) BatchDeleted(ctx context.Context, id int64) {
	i.cache.Invalidate(ctx, KeyBatchesAll, KeyBatch(id), KeyBatchSchedule(id), KeyBatchRoster(id))
}

// Schedule invalidates the schedule list of the owning batch.
func (i *Invalidator) Schedule(ctx context.Context, batchID int64) {
	i.cache.Invalidate(ctx, KeyBatchSchedule(batchID))
}

// Student invalidates one student's detail entry plus the list-all aggregate.
func (i *Invalidator) Student(ctx context.Context, id int64) {
	i.cache.Invalidate(ctx, KeyStudentsAll, KeyStudent(id))
}

// Syllabus invalidates one syllabus entry plus the list-all aggregate.
func (i *Invalidator) Syllabus(ctx context.Context, id int64) {
	i.cache.Invalidate(ctx, KeySyllabusAll, KeySyllabus(id))
}

// Enrollment invalidates the mapping entry and the roster of its batch.
func (i *Invalidator) Enrollment(ctx context.Context, id, batchID int64) {
	i.cache.Invalidate(ctx, KeyEnrollment(id), KeyBatchRoster(batchID))
}
