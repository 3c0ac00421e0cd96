package designs

import (
	"context"

	"github.com/angelmondragon/casecraft-backend/internal/session"
)

// Committer exposes the service as the session's design persistence step.
func Committer(svc Service) session.DesignCommitter {
	return session.DesignCommitterFunc(func(ctx context.Context, commit session.DesignCommit) (string, error) {
		dto, err := svc.Create(ctx, CreateInput{
			PhoneModelID:    commit.PhoneModelID,
			DesignType:      commit.DesignType,
			GalleryDesignID: commit.GalleryID,
			ImageURL:        commit.ImageRef,
			Position:        commit.Placement,
		})
		if err != nil {
			return "", err
		}
		return dto.ID.String(), nil
	})
}
