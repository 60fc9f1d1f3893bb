package generateimage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/gemini"
	"ai-studio-server/modules/common/imaging"
	"ai-studio-server/modules/common/model"
)

// CatalogStore - lookup of live catalog rows
type CatalogStore interface {
	FindCatalogEntity(ctx context.Context, coll model.Collection, id string) (*model.CatalogEntity, error)
}

// GenerationLog - persistence of generation attempts
type GenerationLog interface {
	InsertGeneratedImage(ctx context.Context, rec *model.GeneratedImage) (*model.GeneratedImage, error)
}

// BlobStore - object storage for reference downloads and result uploads
type BlobStore interface {
	Upload(ctx context.Context, data []byte, path string, contentType string) (string, error)
	Download(ctx context.Context, pathOrURL string) ([]byte, error)
}

// ImageGenerator - the generative provider
type ImageGenerator interface {
	GenerateCompositeImage(ctx context.Context, refs []gemini.ReferenceImage, prompt string) ([]byte, error)
}

type Deps struct {
	Catalog        CatalogStore
	Log            GenerationLog
	Blobs          BlobStore
	Generator      ImageGenerator
	RetentionHours int
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.RetentionHours <= 0 {
		deps.RetentionHours = 6
	}
	return &Service{deps: deps}
}

// GenerateImage - the full pipeline: validate the seven references, fetch the
// pose and background binaries, call the model, store the result, record the
// attempt. Exactly one generated_images row is written per call, on both the
// success and the failure path.
func (s *Service) GenerateImage(ctx context.Context, req *GenerateImageRequest) (*GenerationResult, error) {
	start := time.Now()

	result, err := s.generate(ctx, req, start)
	if err != nil {
		s.recordFailure(ctx, req, err, time.Since(start))
		return nil, normalizeError(err)
	}

	return result, nil
}

func (s *Service) generate(ctx context.Context, req *GenerateImageRequest, start time.Time) (*GenerationResult, error) {
	if err := s.validateReferences(ctx, req); err != nil {
		return nil, err
	}

	refs, err := s.fetchReferenceImages(ctx, req)
	if err != nil {
		return nil, err
	}

	// Decode checks the base64 encoding only; the model receives the
	// original payload.
	productBase64 := imaging.StripDataURLPrefix(req.ProductImage)
	if _, err := imaging.DecodeBase64Image(req.ProductImage); err != nil {
		log.Printf("❌ Product image rejected: %v", err)
		return nil, apperr.BadRequest(MsgInvalidProductImage)
	}

	refs = append(refs, gemini.ReferenceImage{
		Data:     productBase64,
		MIMEType: req.ProductImageMimeType,
	})

	imageData, err := s.deps.Generator.GenerateCompositeImage(ctx, refs, "")
	if err != nil {
		return nil, err
	}

	imageURL, imagePath, err := s.storeGeneratedImage(ctx, imageData)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(time.Duration(s.deps.RetentionHours) * time.Hour)
	elapsed := time.Since(start)

	rec := &model.GeneratedImage{
		IndustryID:          req.IndustryID,
		CategoryID:          req.CategoryID,
		ProductTypeID:       req.ProductTypeID,
		ProductPoseID:       req.ProductPoseID,
		ProductThemeID:      req.ProductThemeID,
		ProductBackgroundID: req.ProductBackgroundID,
		AiFaceID:            req.AiFaceID,
		ImageURL:            &imageURL,
		ImagePath:           &imagePath,
		GenerationStatus:    model.GenerationStatusSuccess,
		GenerationTimeMs:    elapsed.Milliseconds(),
		ExpiresAt:           &expiresAt,
	}

	if _, err := s.deps.Log.InsertGeneratedImage(ctx, rec); err != nil {
		// Every invocation must leave a row behind; an unrecordable success
		// goes down the failure path like any other pipeline error.
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}

	log.Printf("✅ Image generated in %dms: %s", elapsed.Milliseconds(), imagePath)

	return &GenerationResult{
		ImageURL:  imageURL,
		ExpiresAt: expiresAt,
	}, nil
}

// validateReferences - look up all seven ids concurrently, then report the
// first missing one in the fixed priority order of Collections().
func (s *Service) validateReferences(ctx context.Context, req *GenerateImageRequest) error {
	ids := []string{
		req.IndustryID,
		req.CategoryID,
		req.ProductTypeID,
		req.ProductPoseID,
		req.ProductThemeID,
		req.ProductBackgroundID,
		req.AiFaceID,
	}
	colls := model.Collections()

	entities := make([]*model.CatalogEntity, len(colls))
	errs := make([]error, len(colls))

	var wg sync.WaitGroup
	for i := range colls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entities[i], errs[i] = s.deps.Catalog.FindCatalogEntity(ctx, colls[i], ids[i])
		}(i)
	}
	wg.Wait()

	messages := []string{
		MsgIndustryNotFound,
		MsgCategoryNotFound,
		MsgProductTypeNotFound,
		MsgProductPoseNotFound,
		MsgProductThemeNotFound,
		MsgProductBackgroundNotFound,
		MsgAiFaceNotFound,
	}

	for i := range colls {
		if errs[i] != nil {
			return fmt.Errorf("failed to validate %s: %w", colls[i].Table, errs[i])
		}
		if entities[i] == nil {
			return apperr.NotFound(messages[i])
		}
	}

	return nil
}

// fetchReferenceImages - load the background and pose reference binaries and
// return them base64-encoded in prompt order: [1] background, [2] pose + face.
func (s *Service) fetchReferenceImages(ctx context.Context, req *GenerateImageRequest) ([]gemini.ReferenceImage, error) {
	lookups := []struct {
		coll model.Collection
		id   string
	}{
		{model.CollectionProductBackgrounds, req.ProductBackgroundID},
		{model.CollectionProductPoses, req.ProductPoseID},
	}

	entities := make([]*model.CatalogEntity, len(lookups))
	errs := make([]error, len(lookups))

	var wg sync.WaitGroup
	for i := range lookups {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entities[i], errs[i] = s.deps.Catalog.FindCatalogEntity(ctx, lookups[i].coll, lookups[i].id)
		}(i)
	}
	wg.Wait()

	for i := range lookups {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to load %s: %w", lookups[i].coll.Table, errs[i])
		}
		if entities[i] == nil || !entities[i].HasImage() {
			log.Printf("❌ %s %s has no stored reference image", lookups[i].coll.Label, lookups[i].id)
			return nil, apperr.NotFound(fmt.Sprintf("%s: %s image not available",
				MsgReferenceImageMissing, lookups[i].coll.Label))
		}
	}

	blobs := make([][]byte, len(entities))
	downloadErrs := make([]error, len(entities))

	for i := range entities {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			blobs[i], downloadErrs[i] = s.deps.Blobs.Download(ctx, entities[i].ImageLocation())
		}(i)
	}
	wg.Wait()

	// A failed download is a storage fault, not a missing binary; it
	// propagates as a generic generation failure.
	for i := range downloadErrs {
		if downloadErrs[i] != nil {
			return nil, fmt.Errorf("failed to download %s reference: %w",
				lookups[i].coll.Label, downloadErrs[i])
		}
	}

	refs := make([]gemini.ReferenceImage, len(blobs))
	for i, blob := range blobs {
		refs[i] = gemini.ReferenceImage{
			Data:     imaging.EncodeBase64(blob),
			MIMEType: "image/jpeg",
		}
	}

	return refs, nil
}

// storeGeneratedImage - upload the result under a timestamp+uuid path so
// concurrent requests can never collide
func (s *Service) storeGeneratedImage(ctx context.Context, data []byte) (url string, path string, err error) {
	path = fmt.Sprintf("generated-images/%d-%s/image.jpg", time.Now().UnixMilli(), uuid.NewString())

	url, err = s.deps.Blobs.Upload(ctx, data, path, "image/jpeg")
	if err != nil {
		log.Printf("❌ Failed to store generated image: %v", err)
		return "", "", apperr.BadRequest(MsgStorageFailed)
	}

	return url, path, nil
}

// recordFailure - best-effort failed row; never masks the pipeline error
func (s *Service) recordFailure(ctx context.Context, req *GenerateImageRequest, cause error, elapsed time.Duration) {
	message := cause.Error()

	rec := &model.GeneratedImage{
		IndustryID:          req.IndustryID,
		CategoryID:          req.CategoryID,
		ProductTypeID:       req.ProductTypeID,
		ProductPoseID:       req.ProductPoseID,
		ProductThemeID:      req.ProductThemeID,
		ProductBackgroundID: req.ProductBackgroundID,
		AiFaceID:            req.AiFaceID,
		GenerationStatus:    model.GenerationStatusFailed,
		ErrorMessage:        &message,
		GenerationTimeMs:    elapsed.Milliseconds(),
	}

	if _, err := s.deps.Log.InsertGeneratedImage(ctx, rec); err != nil {
		log.Printf("⚠️  Failed to record failed generation: %v", err)
	}
}

// normalizeError - NotFound and BadRequest pass through verbatim; anything
// else becomes a generic BadRequest carrying the original message.
func normalizeError(err error) error {
	if apperr.IsNotFound(err) || apperr.IsBadRequest(err) {
		return err
	}
	return apperr.BadRequest(fmt.Sprintf("%s: %s", MsgGenerationFailed, err.Error()))
}
