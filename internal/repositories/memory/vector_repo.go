package memory

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shahtaz/medusa/internal/models"
)

// VectorRepo is a brute-force cosine store over all records. It backs tests
// and small deployments without the pgvector extension; portfolio-scale data
// (a few thousand rows) does not need an ANN index.
type VectorRepo struct {
	mu   sync.RWMutex
	rows map[string]*models.VectorizedContent // key: collection|title
}

func NewVectorRepo() *VectorRepo {
	return &VectorRepo{rows: make(map[string]*models.VectorizedContent)}
}

func key(collection models.CollectionType, title string) string {
	return string(collection) + "|" + title
}

func (r *VectorRepo) Upsert(_ context.Context, rec *models.VectorizedContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(rec.CollectionType, rec.Title)
	if existing, ok := r.rows[k]; ok {
		existing.Content = rec.Content
		existing.Metadata = rec.Metadata
		existing.Embedding = rec.Embedding
		existing.UpdatedAt = time.Now().UTC()
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		rec.UpdatedAt = existing.UpdatedAt
		return nil
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	cp := *rec
	r.rows[k] = &cp
	return nil
}

func (r *VectorRepo) SearchByVector(_ context.Context, vec []float32, collection models.CollectionType, limit int) ([]models.VectorSearchHit, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hits := make([]models.VectorSearchHit, 0, len(r.rows))
	for _, rec := range r.rows {
		if collection != "" && rec.CollectionType != collection {
			continue
		}
		hits = append(hits, models.VectorSearchHit{
			Record:     *rec,
			Similarity: cosine(vec, rec.Embedding.Slice()),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Record.UpdatedAt.After(hits[j].Record.UpdatedAt)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (r *VectorRepo) DeleteByMetadataID(_ context.Context, collection models.CollectionType, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, rec := range r.rows {
		if rec.CollectionType != collection {
			continue
		}
		if metadataID(rec.Metadata) == id {
			delete(r.rows, k)
		}
	}
	return nil
}

func metadataID(raw []byte) string {
	var md map[string]any
	if err := json.Unmarshal(raw, &md); err != nil {
		return ""
	}
	if v, ok := md["id"].(string); ok {
		return v
	}
	return ""
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
