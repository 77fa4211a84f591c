package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
	"github.com/hey-granth/profile-guard/internal/similarity"
)

// ImagesPerCeremony is the fixed number of images for enrollment and
// verification. Reference and record rows have exactly three vector slots.
const ImagesPerCeremony = 3

// Result is the outcome of an enrollment or verification.
type Result struct {
	Verified bool
	Score    float64
	// RecordID is the audit record written, empty when none was.
	RecordID string
}

// Service is the verification pipeline: it embeds images through the
// configured embedding.Source and compares them to the enrolled references.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	verifRepo *repository.VerificationRepository
	now       func() time.Time
}

// NewService creates the pipeline with dependencies from AppContext.
// Dependencies include:
//   - DB connection (users and reference embeddings)
//   - Embedder and Policy (threshold, dimension)
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		verifRepo: repository.NewVerificationRepository(appCtx.DB),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Threshold is the minimum BestMatch score that counts as verified.
func (s *Service) Threshold() float64 {
	return s.appCtx.Policy.SimilarityThreshold
}

// Enroll establishes (or replaces) the user's reference embedding set.
//
// Behavior:
//   - Exactly three images, checked before anything is embedded.
//   - All three are embedded before any write; one bad image aborts the call
//     with ErrEmbeddingFailure and leaves prior state untouched.
//   - One transaction then upserts the reference row, marks the user verified
//     and appends an enrollment record.
//
// Example:
//
//	res, err := svc.Enroll(ctx, 42, [][]byte{img1, img2, img3})
func (s *Service) Enroll(ctx context.Context, userID uint64, images [][]byte) (Result, error) {
	log := s.appCtx.Logger.With("op", "enroll", "user_id", userID)

	if len(images) != ImagesPerCeremony {
		return Result{}, svcErr.ErrWrongImageCount
	}
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return Result{}, identityErr(err)
	}

	vectors, err := s.embedAll(ctx, images, true)
	if err != nil {
		log.Warn("enrollment images rejected", "err", err)
		return Result{}, err
	}
	consistency := minPairwise(vectors)

	ref := &db.ReferenceEmbedding{
		UserID:     userID,
		Embedding1: db.NewVector(vectors[0]),
		Embedding2: db.NewVector(vectors[1]),
		Embedding3: db.NewVector(vectors[2]),
		Dim:        len(vectors[0]),
	}
	rec := newRecord(userID, db.KindEnrollment, vectors, consistency, true)

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.WithTx(tx).Lock(ctx, userID); err != nil {
			return identityErr(err)
		}
		verifRepo := s.verifRepo.WithTx(tx)
		if err := verifRepo.UpsertReference(ctx, ref); err != nil {
			return fmt.Errorf("store reference embeddings: %w", err)
		}
		if err := s.userRepo.WithTx(tx).MarkVerified(ctx, userID, s.now()); err != nil {
			return fmt.Errorf("mark user verified: %w", err)
		}
		if err := verifRepo.AppendRecord(ctx, rec); err != nil {
			return fmt.Errorf("append verification record: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("enrollment failed", "err", err)
		return Result{}, err
	}

	log.Info("enrollment complete", "record_id", rec.ID, "consistency", consistency)
	return Result{Verified: true, Score: consistency, RecordID: rec.ID}, nil
}

// Verify compares three candidate images with the enrolled references.
//
// Behavior:
//   - Wrong image count fails before the embedder is called.
//   - ErrNotEnrolled when the user has no reference set, distinct from a
//     verification that ran and scored below the threshold.
//   - Verified iff BestMatch(candidates, references) >= threshold.
//   - Writes nothing.
func (s *Service) Verify(ctx context.Context, userID uint64, images [][]byte) (Result, error) {
	res, _, err := s.verify(ctx, userID, images)
	return res, err
}

// VerifyAndRecord runs Verify and appends a login record of the outcome.
// Precondition failures write nothing.
func (s *Service) VerifyAndRecord(ctx context.Context, userID uint64, images [][]byte) (Result, error) {
	res, vectors, err := s.verify(ctx, userID, images)
	if err != nil {
		return Result{}, err
	}

	rec := newRecord(userID, db.KindLogin, vectors, res.Score, res.Verified)
	if err := s.verifRepo.AppendRecord(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("append verification record: %w", err)
	}
	res.RecordID = rec.ID
	return res, nil
}

func (s *Service) verify(ctx context.Context, userID uint64, images [][]byte) (Result, [][]float32, error) {
	if len(images) != ImagesPerCeremony {
		return Result{}, nil, svcErr.ErrWrongImageCount
	}

	refs, err := s.References(ctx, userID)
	if err != nil {
		return Result{}, nil, err
	}

	candidates, err := s.embedAll(ctx, images, false)
	if err != nil {
		return Result{}, nil, err
	}

	score := similarity.BestMatch(candidates, refs)
	verified := score >= s.Threshold()
	s.appCtx.Logger.Info("verification scored", "user_id", userID, "score", score, "verified", verified)
	return Result{Verified: verified, Score: score}, candidates, nil
}

// References returns the user's enrolled vectors, ErrIdentityNotFound for an
// unknown user and ErrNotEnrolled for a user without enrollment.
func (s *Service) References(ctx context.Context, userID uint64) ([][]float32, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return nil, identityErr(err)
	}
	ref, err := s.verifRepo.GetReference(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, svcErr.ErrNotEnrolled
	} else if err != nil {
		return nil, err
	}
	return ref.Vectors(), nil
}

// IsEnrolled reports whether the user has a reference set.
func (s *Service) IsEnrolled(ctx context.Context, userID uint64) (bool, error) {
	return s.verifRepo.HasReference(ctx, userID)
}

// Embed runs a single image through the embedder with the pipeline's failure
// mapping.
func (s *Service) Embed(ctx context.Context, image []byte) ([]float32, error) {
	v, err := s.embedOne(ctx, image)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", svcErr.ErrEmbeddingFailure, err)
	}
	return v, nil
}

// embedAll embeds every image concurrently. The first failure cancels the
// rest; a canceled caller context wins over the embedding error.
func (s *Service) embedAll(ctx context.Context, images [][]byte, strictDim bool) ([][]float32, error) {
	vectors := make([][]float32, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			v, err := s.embedOne(gctx, img)
			if err != nil {
				return fmt.Errorf("%w: image %d: %v", svcErr.ErrEmbeddingFailure, i+1, err)
			}
			if strictDim && len(v) != s.appCtx.Policy.EmbeddingDim {
				return fmt.Errorf("%w: image %d: got %d dimensions, want %d",
					svcErr.ErrEmbeddingFailure, i+1, len(v), s.appCtx.Policy.EmbeddingDim)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return vectors, nil
}

func (s *Service) embedOne(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	v, err := s.appCtx.Embedder.Embed(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, errors.New("embedder returned an empty vector")
	}
	return v, nil
}

func newRecord(userID uint64, kind db.VerificationKind, vectors [][]float32, score float64, verified bool) *db.VerificationRecord {
	return &db.VerificationRecord{
		UserID:     userID,
		Kind:       kind,
		Embedding1: db.NewVector(vectors[0]),
		Embedding2: db.NewVector(vectors[1]),
		Embedding3: db.NewVector(vectors[2]),
		Score:      score,
		IsVerified: verified,
	}
}

// minPairwise is the lowest similarity between any two enrollment vectors.
func minPairwise(vectors [][]float32) float64 {
	lowest := 1.0
	for i := range vectors {
		for j := i + 1; j < len(vectors); j++ {
			lowest = min(lowest, similarity.Score(vectors[i], vectors[j]))
		}
	}
	return lowest
}

func identityErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.ErrIdentityNotFound
	}
	return err
}
