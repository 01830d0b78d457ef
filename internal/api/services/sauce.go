package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/sauces"
	"github.com/rohits-web03/piiquante/internal/votes"
)

type VoteResult int

const (
	VoteUnchanged VoteResult = iota
	VoteChanged
)

type SauceService struct {
	sauces     repositories.SauceRepository
	blobs      repositories.BlobStore
	log        *zap.Logger
	maxRetries int
}

func NewSauceService(sauceRepo repositories.SauceRepository, blobs repositories.BlobStore, log *zap.Logger, maxRetries int) *SauceService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &SauceService{sauces: sauceRepo, blobs: blobs, log: log, maxRetries: maxRetries}
}

func (s *SauceService) List(ctx context.Context) ([]models.Sauce, error) {
	list, err := s.sauces.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load sauces", err)
	}
	return list, nil
}

func (s *SauceService) Get(ctx context.Context, rawID string) (*models.Sauce, error) {
	id, err := sauces.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create stores the image and then the sauce, owned by ownerID.
func (s *SauceService) Create(ctx context.Context, ownerID string, in sauces.Input, image *repositories.Upload) (*models.Sauce, error) {
	in, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperr.New(apperr.InvalidInput, "An image is required")
	}
	if err := checkImage(*image); err != nil {
		return nil, err
	}

	url, err := s.blobs.Store(ctx, *image)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to store image", err)
	}

	sauce := models.NewSauce(ownerID, in, url)
	if err := s.sauces.Create(ctx, sauce); err != nil {
		s.dropBlob(ctx, url)
		return nil, apperr.Wrap(apperr.Internal, "Failed to save sauce", err)
	}

	s.log.Info("sauce created", zap.String("sauceId", sauce.ID), zap.String("userId", ownerID))
	return sauce, nil
}

// Update replaces the editable fields and, when image is set, the image.
// The previous image is removed only after the new state is stored.
func (s *SauceService) Update(ctx context.Context, rawID, requesterID string, in sauces.Input, image *repositories.Upload) error {
	id, err := sauces.ParseID(rawID)
	if err != nil {
		return err
	}
	in, err = in.Validate()
	if err != nil {
		return err
	}
	if image != nil {
		if err := checkImage(*image); err != nil {
			return err
		}
	}

	sauce, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := sauces.RequireOwner(sauce.UserID, requesterID); err != nil {
		return err
	}

	oldURL := sauce.ImageURL
	if image != nil {
		url, err := s.blobs.Store(ctx, *image)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to store image", err)
		}
		sauce.ImageURL = url
	}
	sauce.ApplyInput(in)

	if err := s.sauces.Update(ctx, sauce); err != nil {
		if image != nil {
			s.dropBlob(ctx, sauce.ImageURL)
		}
		return storageError(err)
	}
	if image != nil {
		s.dropBlob(ctx, oldURL)
	}
	return nil
}

func (s *SauceService) Delete(ctx context.Context, rawID, requesterID string) error {
	id, err := sauces.ParseID(rawID)
	if err != nil {
		return err
	}
	sauce, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := sauces.RequireOwner(sauce.UserID, requesterID); err != nil {
		return err
	}
	if err := s.sauces.Delete(ctx, id); err != nil {
		return storageError(err)
	}
	s.dropBlob(ctx, sauce.ImageURL)
	return nil
}

// Vote records voterID's final position on a sauce. claimedID is the userId
// from the request body and must match the authenticated voterID.
//
// The read, reconcile and conditional write run as one attempt. An attempt
// that loses a race against another writer starts over from a fresh read.
func (s *SauceService) Vote(ctx context.Context, rawID, voterID, claimedID string, like int) (VoteResult, error) {
	id, err := sauces.ParseID(rawID)
	if err != nil {
		return VoteUnchanged, err
	}
	if err := sauces.CheckVoterIdentity(claimedID, voterID); err != nil {
		return VoteUnchanged, err
	}
	value, err := votes.ParseValue(like)
	if err != nil {
		return VoteUnchanged, err
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		sauce, err := s.load(ctx, id)
		if err != nil {
			return VoteUnchanged, err
		}

		out, err := votes.Reconcile(sauce.VoteState(), voterID, value)
		if err != nil {
			if apperr.IsKind(err, apperr.DataConsistency) {
				s.log.Error("vote integrity violation",
					zap.String("sauceId", id),
					zap.String("voterId", voterID),
					zap.Strings("usersLiked", sauce.UsersLiked),
					zap.Strings("usersDisliked", sauce.UsersDisliked),
				)
			}
			return VoteUnchanged, err
		}
		if !out.Changed {
			return VoteUnchanged, nil
		}

		err = s.sauces.UpdateVotes(ctx, id, sauce.Version, out)
		if err == nil {
			return VoteChanged, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return VoteUnchanged, storageError(err)
		}
		s.log.Debug("vote lost a race, retrying", zap.String("sauceId", id), zap.Int("attempt", attempt))
	}

	s.log.Warn("vote retries exhausted", zap.String("sauceId", id), zap.Int("attempts", s.maxRetries))
	return VoteUnchanged, apperr.New(apperr.Conflict, "The sauce is being updated, please retry")
}

func (s *SauceService) load(ctx context.Context, id string) (*models.Sauce, error) {
	sauce, err := s.sauces.Get(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	return sauce, nil
}

func (s *SauceService) dropBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.log.Warn("failed to delete image", zap.String("url", url), zap.Error(err))
	}
}

func storageError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, "Sauce not found", err)
	}
	return apperr.Wrap(apperr.Internal, "Storage failure", err)
}

func checkImage(u repositories.Upload) error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return apperr.New(apperr.InvalidInput, "The uploaded file must be an image")
	}
	return nil
}
