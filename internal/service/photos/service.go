package photos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
	"github.com/hey-granth/profile-guard/internal/service/gate"
	"github.com/hey-granth/profile-guard/internal/service/verification"
	"github.com/hey-granth/profile-guard/internal/similarity"
)

// Upload is one photo to admit: the key under which the caller stored the
// file, and its bytes for embedding.
type Upload struct {
	ImageKey string
	Image    []byte
}

// Service admits profile photos. Only enrolled users may add photos, and each
// photo is scored against the user's reference embeddings.
type Service struct {
	appCtx    *app.AppContext
	verifier  *verification.Service
	gate      *gate.Service
	photoRepo *repository.PhotoRepository
}

func NewService(appCtx *app.AppContext, verifier *verification.Service, g *gate.Service) *Service {
	return &Service{
		appCtx:    appCtx,
		verifier:  verifier,
		gate:      g,
		photoRepo: repository.NewPhotoRepository(appCtx.DB),
	}
}

// AddPhoto appends one photo to the user's profile.
//
// Behavior:
//   - ErrNotEnrolled until the user completed enrollment.
//   - The photo is embedded and marked verified when it scores at or above
//     the threshold against any reference vector.
//   - Position is the next free slot; the first photo becomes primary.
//   - ErrTooManyPhotos past the configured maximum.
func (s *Service) AddPhoto(ctx context.Context, userID uint64, up Upload) (*db.ProfilePhoto, error) {
	if up.ImageKey == "" {
		return nil, fmt.Errorf("%w: image key is required", svcErr.ErrValidation)
	}
	refs, err := s.admissionRefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	vec, err := s.verifier.Embed(ctx, up.Image)
	if err != nil {
		return nil, err
	}
	score := similarity.BestMatch([][]float32{vec}, refs)

	photo := db.ProfilePhoto{
		ImageKey:   up.ImageKey,
		Embedding:  db.NewVector(vec),
		IsVerified: score >= s.verifier.Threshold(),
	}
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.photoRepo.WithTx(tx)
		profile, err := repo.EnsureProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.LockProfile(ctx, profile.ID); err != nil {
			return err
		}
		existing, err := repo.ListPhotos(ctx, profile.ID)
		if err != nil {
			return err
		}
		if len(existing) >= s.appCtx.Policy.MaxProfilePhotos {
			return svcErr.ErrTooManyPhotos
		}

		photo.ProfileID = profile.ID
		photo.Position = nextPosition(existing)
		photo.IsPrimary = len(existing) == 0
		batch := []db.ProfilePhoto{photo}
		if err := repo.CreatePhotos(ctx, batch); err != nil {
			return err
		}
		photo = batch[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("photo admitted", "user_id", userID, "position", photo.Position,
		"verified", photo.IsVerified, "score", score)
	return &photo, nil
}

// ReplacePhotos swaps the whole photo set in one transaction.
//
// Behavior:
//   - Between one and MaxProfilePhotos uploads.
//   - The set as a whole must pass BestMatch against the references, else
//     ErrPhotoMismatch and nothing changes.
//   - Positions are assigned 1..n in upload order before insert; the first is
//     primary.
func (s *Service) ReplacePhotos(ctx context.Context, userID uint64, uploads []Upload) ([]db.ProfilePhoto, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one photo is required", svcErr.ErrValidation)
	}
	if len(uploads) > s.appCtx.Policy.MaxProfilePhotos {
		return nil, svcErr.ErrTooManyPhotos
	}
	for _, up := range uploads {
		if up.ImageKey == "" {
			return nil, fmt.Errorf("%w: image key is required", svcErr.ErrValidation)
		}
	}
	refs, err := s.admissionRefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(uploads))
	for _, up := range uploads {
		vec, err := s.verifier.Embed(ctx, up.Image)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	if best := similarity.BestMatch(vectors, refs); best < s.verifier.Threshold() {
		s.appCtx.Logger.Warn("photo set rejected", "user_id", userID, "score", best)
		return nil, svcErr.ErrPhotoMismatch
	}

	photos := make([]db.ProfilePhoto, len(uploads))
	for i, up := range uploads {
		photos[i] = db.ProfilePhoto{
			ImageKey:   up.ImageKey,
			Embedding:  db.NewVector(vectors[i]),
			IsVerified: similarity.BestMatch(vectors[i:i+1], refs) >= s.verifier.Threshold(),
			Position:   i + 1,
			IsPrimary:  i == 0,
		}
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.photoRepo.WithTx(tx)
		profile, err := repo.EnsureProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.LockProfile(ctx, profile.ID); err != nil {
			return err
		}
		if err := repo.DeletePhotos(ctx, profile.ID); err != nil {
			return err
		}
		for i := range photos {
			photos[i].ProfileID = profile.ID
		}
		return repo.CreatePhotos(ctx, photos)
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// ListPhotos returns the user's photos ordered by position.
func (s *Service) ListPhotos(ctx context.Context, userID uint64) ([]db.ProfilePhoto, error) {
	profile, err := s.photoRepo.GetProfile(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return s.photoRepo.ListPhotos(ctx, profile.ID)
}

func (s *Service) admissionRefs(ctx context.Context, userID uint64) ([][]float32, error) {
	ok, err := s.gate.CanAdmitPhoto(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, svcErr.ErrNotEnrolled
	}
	return s.verifier.References(ctx, userID)
}

func nextPosition(existing []db.ProfilePhoto) int {
	pos := 0
	for _, p := range existing {
		pos = max(pos, p.Position)
	}
	return pos + 1
}
