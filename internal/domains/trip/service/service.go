package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Trip=MockTripService

import (
	"context"
	"fmt"
	"path"
	"strings"

	"boatbook/config"
	"boatbook/infras/otel"
	"boatbook/infras/s3"
	"boatbook/internal/domains/trip/model"
	"boatbook/internal/domains/trip/model/dto"
	"boatbook/internal/domains/trip/repository"
	"boatbook/shared"
	"boatbook/shared/actor"
	"boatbook/shared/base64"
	"boatbook/shared/cache"
	"boatbook/shared/constant"
	gDto "boatbook/shared/dto"
	"boatbook/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetTrip    = "trip:get"
	cacheGetAllTrip = "trip:gets"
)

type Trip interface {
	Create(ctx context.Context, act actor.Actor, req dto.CreateTripRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTripsResponse, error)
	Get(ctx context.Context, id string) (dto.TripResponse, error)
	Update(ctx context.Context, act actor.Actor, req dto.UpdateTripRequest, id string) error
	Delete(ctx context.Context, act actor.Actor, id string) error
	UploadImage(ctx context.Context, act actor.Actor, req dto.UploadImageRequest, id string) (dto.UploadImageResponse, error)
}

type serviceImpl struct {
	repo  repository.Trip
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Trip, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Trip {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// objectName keeps the extension of the uploaded image, e.g. "<uuid>.png".
func objectName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == constant.Empty {
		return uuid.NewString()
	}

	return uuid.NewString() + "." + ext
}

// uploadDataURI stores a base64 data URI image and returns its public URL and object key.
func (s *serviceImpl) uploadDataURI(ctx context.Context, image string) (string, string, error) {
	data, contentType, err := base64.Decode(image)
	if err != nil {
		return constant.Empty, constant.Empty, failure.BadRequest(err)
	}

	fileName := objectName(path.Base(contentType))

	url, err := s.s3.UploadFileBytes(ctx, model.EntityName, fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload trip image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, path.Join(model.EntityName, fileName), nil
}

func (s *serviceImpl) Create(ctx context.Context, act actor.Actor, req dto.CreateTripRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	var imageURL, objectKey string

	if req.Image != constant.Empty {
		imageURL, objectKey, err = s.uploadDataURI(ctx, req.Image)
		if err != nil {
			return id, err
		}
	}

	trip := req.ToModel(act.UserID, imageURL)

	if err = s.repo.Insert(ctx, trip); err != nil {
		log.Error().Err(err).Msg("failed to create trip")

		if objectKey != constant.Empty {
			_ = s.s3.DeleteFile(ctx, objectKey)
		}

		return id, fmt.Errorf("failed to create trip: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllTrip)
	}()

	return trip.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTripsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTrip, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for trips")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count trips")

		return res, fmt.Errorf("failed to count trips: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trips")

		return res, fmt.Errorf("failed to get trips: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save trips to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TripResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTrip, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for trip")

		return res, nil
	}

	trip, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip")

		return res, fmt.Errorf("failed to get trip: %w", err)
	}

	if trip.ID == constant.Empty {
		return res, failure.NotFound("trip not found")
	}

	res.FromModel(trip)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save trip to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, act actor.Actor, req dto.UpdateTripRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateTripRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip")

		return fmt.Errorf("failed to get trip: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("trip not found")
	}

	updatedFields := shared.TransformFields(req, act.UserID)

	var objectKey string

	if req.Image != nil {
		var imageURL string

		imageURL, objectKey, err = s.uploadDataURI(ctx, *req.Image)
		if err != nil {
			return err
		}

		updatedFields[model.FieldImageURL] = imageURL
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update trip")

		if objectKey != constant.Empty {
			_ = s.s3.DeleteFile(ctx, objectKey)
		}

		return fmt.Errorf("failed to update trip: %w", err)
	}

	if objectKey != constant.Empty {
		s.deleteImage(ctx, current.ImageURL)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete deactivates the trip; schedules and bookings keep referencing it.
func (s *serviceImpl) Delete(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if trip exists")

		return fmt.Errorf("failed to check if trip exists: %w", err)
	}

	if !exist {
		return failure.NotFound("trip not found")
	}

	inactive := false

	if err = s.repo.Update(ctx, shared.TransformFields(dto.UpdateTripRequest{IsActive: &inactive}, act.UserID), filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate trip")

		return fmt.Errorf("failed to deactivate trip: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, act actor.Actor, req dto.UploadImageRequest, id string) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip")

		return res, fmt.Errorf("failed to get trip: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound("trip not found")
	}

	fileName := objectName(path.Ext(req.Image.Filename))

	url, err := s.s3.UploadFile(ctx, model.EntityName, req.ImageFile, req.Image, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload trip image")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	updatedFields := shared.TransformFields(struct{}{}, act.UserID)
	updatedFields[model.FieldImageURL] = url

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update trip image")

		_ = s.s3.DeleteFile(ctx, path.Join(model.EntityName, fileName))

		return res, fmt.Errorf("failed to update trip image: %w", err)
	}

	s.deleteImage(ctx, current.ImageURL)
	s.invalidate(ctx, id)

	res.ImageURL = url

	return res, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if key := s.s3.GetObjectKeyFromURL(url); key != constant.Empty {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete previous trip image")
		}
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTrip, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete trip from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTrip)
	}()
}
