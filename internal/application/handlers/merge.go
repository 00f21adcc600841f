package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

// MergeHandler handles merges requested with textual conflict resolutions.
type MergeHandler struct {
	service *services.MergeService
}

// NewMergeHandler creates a new merge handler.
func NewMergeHandler(service *services.MergeService) *MergeHandler {
	return &MergeHandler{
		service: service,
	}
}

// MergeRequest is a merge of one branch into another.
type MergeRequest struct {
	SourceBranchID string
	TargetBranchID string
	// Resolve holds resolutions in the form "key=source" or
	// "namespace:key=target".
	Resolve []string
	ActorID string
}

// Handle parses the resolutions and runs the merge.
func (h *MergeHandler) Handle(ctx context.Context, req MergeRequest) (*entities.MergeResult, error) {
	resolutions, err := ParseResolutions(req.Resolve)
	if err != nil {
		return nil, err
	}

	return h.service.Merge(ctx, services.MergeInput{
		SourceBranchID: req.SourceBranchID,
		TargetBranchID: req.TargetBranchID,
		Resolutions:    resolutions,
		ActorID:        req.ActorID,
	})
}

// ParseResolutions parses "[namespace:]key=source|target" values. The
// namespace is everything before the first colon, so a key of the default
// namespace that contains a colon is written with a leading one
// (":errors:404=source").
func ParseResolutions(raws []string) ([]entities.ConflictResolution, error) {
	resolutions := make([]entities.ConflictResolution, 0, len(raws))
	for _, raw := range raws {
		idx := strings.LastIndex(raw, "=")
		if idx < 0 {
			return nil, fmt.Errorf("%w: resolution %q must look like key=source or key=target", entities.ErrInvalidResolution, raw)
		}

		key, side := strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:])
		resolution := entities.Resolution(strings.ToLower(side))
		if !resolution.IsValid() {
			return nil, fmt.Errorf("%w: unknown side %q in %q", entities.ErrInvalidResolution, side, raw)
		}

		var namespace string
		if ns, name, ok := strings.Cut(key, ":"); ok {
			namespace, key = ns, name
		}
		if key == "" {
			return nil, fmt.Errorf("%w: missing key in %q", entities.ErrInvalidResolution, raw)
		}

		resolutions = append(resolutions, entities.ConflictResolution{
			Key:        key,
			Namespace:  namespace,
			Resolution: resolution,
		})
	}
	return resolutions, nil
}
