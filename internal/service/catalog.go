package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/authz"
	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/internal/uploads"
	"github.com/Skotchmaster/inventory/internal/watermark"
	"github.com/Skotchmaster/inventory/pkg/logging"
)

type CatalogService struct {
	Repo      *repo.GormRepo
	Uploads   *uploads.Store
	Watermark *watermark.Watermarker
	Events    events.Publisher
}

type ProductInput struct {
	Name      string
	Available bool
	// Category is honoured for admins only.
	Category string
	Image    *uploads.File
}

func (s *CatalogService) List(ctx context.Context, ident authz.Identity) (*transport.Listing, error) {
	items, err := s.Repo.ListProducts(ctx, ident.Role)
	if err != nil {
		return nil, err
	}
	logo, err := s.logo(ctx)
	if err != nil {
		return nil, err
	}
	return &transport.Listing{Products: items, Logo: logo}, nil
}

// Menu is the public listing. An empty category lists everything.
func (s *CatalogService) Menu(ctx context.Context, category string) (*transport.Listing, error) {
	items, err := s.Repo.ListMenu(ctx, category)
	if err != nil {
		return nil, err
	}
	logo, err := s.logo(ctx)
	if err != nil {
		return nil, err
	}
	return &transport.Listing{Products: items, Logo: logo}, nil
}

func (s *CatalogService) Add(ctx context.Context, ident authz.Identity, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add", "user", ident.User)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	prod := models.Product{
		Name:      name,
		Available: in.Available,
		Category:  authz.ForcedCategory(ident, strings.TrimSpace(in.Category)),
	}

	saved, err := s.storeImage(ctx, in.Image, in.Available)
	if err != nil {
		return nil, err
	}
	prod.Image = saved.Name

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		s.discard(ctx, saved)
		return nil, fmt.Errorf("create product: %w", err)
	}

	l.Infow("product_created", "id", prod.ID, "category", prod.Category)
	s.publish(ctx, map[string]any{
		"type":      events.ProductCreated,
		"productID": prod.ID,
		"name":      prod.Name,
		"category":  prod.Category,
		"user":      ident.User,
	})
	return &prod, nil
}

// Edit changes name, availability and optionally the image. The category is never changed.
// ErrNotFound and ErrForbidden both mean nothing was modified.
func (s *CatalogService) Edit(ctx context.Context, ident authz.Identity, id uint, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.edit", "user", ident.User, "id", id)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	current, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.IsPermitted(ident.Role, current.Category) {
		l.Warnw("edit_refused", "role", ident.Role, "category", current.Category)
		return nil, ErrForbidden
	}

	saved, err := s.storeImage(ctx, in.Image, in.Available)
	if err != nil {
		return nil, err
	}

	ch := repo.ProductChanges{Name: name, Available: in.Available, Image: saved.Name}
	if err := s.Repo.UpdateProductScoped(ctx, ident.Role, id, ch); err != nil {
		s.discard(ctx, saved)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	updated, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Infow("product_updated", "image_replaced", saved.Name != "")
	s.publish(ctx, map[string]any{
		"type":      events.ProductUpdated,
		"productID": updated.ID,
		"name":      updated.Name,
		"available": updated.Available,
		"user":      ident.User,
	})
	return updated, nil
}

// Delete removes the row only. The image file stays since other products may share the name.
func (s *CatalogService) Delete(ctx context.Context, ident authz.Identity, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "user", ident.User, "id", id)

	current, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !authz.IsPermitted(ident.Role, current.Category) {
		l.Warnw("delete_refused", "role", ident.Role, "category", current.Category)
		return ErrForbidden
	}

	if err := s.Repo.DeleteProductScoped(ctx, ident.Role, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	l.Infow("product_deleted")
	s.publish(ctx, map[string]any{
		"type":      events.ProductDeleted,
		"productID": id,
		"user":      ident.User,
	})
	return nil
}

// UploadLogo replaces the site logo. A nil file is a no-op and returns an empty name.
func (s *CatalogService) UploadLogo(ctx context.Context, ident authz.Identity, file *uploads.File) (string, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.upload_logo", "user", ident.User)

	if !ident.IsAdmin() {
		l.Warnw("logo_refused", "role", ident.Role)
		return "", ErrForbidden
	}
	if file == nil {
		return "", nil
	}

	saved, err := s.Uploads.Save(*file)
	if err != nil {
		return "", s.uploadErr(err)
	}
	if err := s.Repo.SetLogo(ctx, saved.Name); err != nil {
		s.discard(ctx, saved)
		return "", fmt.Errorf("set logo: %w", err)
	}

	l.Infow("logo_updated", "logo", saved.Name)
	s.publish(ctx, map[string]any{
		"type": events.LogoUpdated,
		"logo": saved.Name,
		"user": ident.User,
	})
	return saved.Name, nil
}

func (s *CatalogService) logo(ctx context.Context) (*string, error) {
	settings, err := s.Repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return settings.Logo, nil
}

// storeImage saves the upload and stamps it when the product is unavailable.
// It returns a zero Saved when there is no image.
func (s *CatalogService) storeImage(ctx context.Context, file *uploads.File, available bool) (uploads.Saved, error) {
	if file == nil {
		return uploads.Saved{}, nil
	}

	saved, err := s.Uploads.Save(*file)
	if err != nil {
		return uploads.Saved{}, s.uploadErr(err)
	}

	if !available {
		if err := s.Watermark.Apply(ctx, s.Uploads.Path(saved.Name)); err != nil {
			s.discard(ctx, saved)
			if errors.Is(err, watermark.ErrUnsupportedFormat) {
				return uploads.Saved{}, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return uploads.Saved{}, fmt.Errorf("watermark %s: %w", saved.Name, err)
		}
	}
	return saved, nil
}

func (s *CatalogService) uploadErr(err error) error {
	if errors.Is(err, uploads.ErrInvalidFilename) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

// discard removes a file written by this request. Files that replaced an
// earlier upload are kept since the old content is already gone.
func (s *CatalogService) discard(ctx context.Context, saved uploads.Saved) {
	if saved.Name == "" || saved.Replaced {
		return
	}
	if err := s.Uploads.Remove(saved.Name); err != nil {
		logging.FromContext(ctx).Warnw("upload_cleanup_failed", "file", saved.Name, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(ctx, fmt.Sprint(event["productID"]), event); err != nil {
		logging.FromContext(ctx).Errorw("kafka_publish_error", "type", event["type"], "error", err)
	}
}
