package jobs

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"

	"farmwork-hub-go/internal/models"
)

// Deduplicator detects re-posts of the same position: same employer, same
// normalized title, same location.
type Deduplicator struct {
	seen map[string]bool
	mu   sync.RWMutex
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]bool)}
}

// Load seeds the deduplicator from existing postings.
func (d *Deduplicator) Load(jobs []models.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, job := range jobs {
		d.seen[postingHash(job)] = true
	}
}

// IsDuplicate checks whether an identical posting has been seen, without
// remembering this one.
func (d *Deduplicator) IsDuplicate(job models.Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.seen[postingHash(job)]
}

// Remember records the posting so later identical ones are flagged.
func (d *Deduplicator) Remember(job models.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[postingHash(job)] = true
}

// Forget drops the posting, e.g. after it is cancelled.
func (d *Deduplicator) Forget(job models.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, postingHash(job))
}

// Reset clears all remembered postings.
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]bool)
}

// postingHash builds the identity key for a posting from normalized title,
// employer and location.
func postingHash(job models.Job) string {
	title := strings.ToLower(strings.TrimSpace(job.Title))
	employer := strings.ToLower(strings.TrimSpace(job.EmployerID))
	location := strings.ToLower(strings.TrimSpace(job.Location))

	key := fmt.Sprintf("%s|%s|%s", title, employer, location)
	return fmt.Sprintf("%x", md5.Sum([]byte(key)))
}

// Similarity scores how alike two postings are, 0.0 to 1.0, weighting
// title over category over location. Used to suggest related jobs.
func Similarity(a, b models.Job) float64 {
	titleSim := stringSimilarity(a.Title, b.Title)
	categorySim := 0.0
	if a.Category == b.Category {
		categorySim = 1.0
	}
	locationSim := stringSimilarity(a.Location, b.Location)

	return titleSim*0.5 + categorySim*0.3 + locationSim*0.2
}

// stringSimilarity is the Jaccard similarity of the two strings' word sets.
func stringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	words1 := strings.Fields(strings.ToLower(s1))
	words2 := strings.Fields(strings.ToLower(s2))
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	set1 := make(map[string]bool)
	for _, word := range words1 {
		set1[word] = true
	}
	set2 := make(map[string]bool)
	for _, word := range words2 {
		set2[word] = true
	}

	intersection := 0
	union := len(set1)
	for word := range set2 {
		if set1[word] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
