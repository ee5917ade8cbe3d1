package cache

import (
	"strconv"
	"strings"
)

// Cache keys live in one place so a write path can never miss one.
// The "cache:" prefix keeps this namespace disjoint from the rate limiter's.
const (
	KeyBatchesAll  = "cache:batches:all"
	KeyStudentsAll = "cache:students:all"
	KeySyllabusAll = "cache:syllabus:all"
)

func KeyBatch(id int64) string         { return "cache:batches:" + strconv.FormatInt(id, 10) }
func KeyBatchSchedule(id int64) string { return "cache:class_schedules:" + strconv.FormatInt(id, 10) }
func KeyBatchRoster(id int64) string   { return "cache:batch:" + strconv.FormatInt(id, 10) }
func KeyStudent(id int64) string       { return "cache:students:" + strconv.FormatInt(id, 10) }
func KeySyllabus(id int64) string      { return "cache:syllabus:" + strconv.FormatInt(id, 10) }
func KeyEnrollment(id int64) string    { return "cache:batch_student:" + strconv.FormatInt(id, 10) }

// resourceOf extracts the resource segment of a cache key for metric labels.
func resourceOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[1]
}
