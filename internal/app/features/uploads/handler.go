// Package uploads handles multipart file uploads for profile media and
// research attachments, backed by the configured blob store.
package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	profilestore "github.com/dalemusser/facultyhub/internal/app/store/profiles"
	"github.com/dalemusser/facultyhub/internal/app/system/auth"
	"github.com/dalemusser/facultyhub/internal/app/system/avatarcache"
	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/dalemusser/facultyhub/internal/app/system/normalize"
	"github.com/dalemusser/facultyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps any single upload. Photos and banners are images;
// certificates and papers are documents, and 20 MB covers scanned PDFs.
const maxUploadBytes = 20 << 20

// Kind names what an uploaded file is for. Photo and banner uploads also
// update the profile's media fields.
type Kind string

const (
	KindPhoto       Kind = "photo"
	KindBanner      Kind = "banner"
	KindCertificate Kind = "certificate"
	KindPaper       Kind = "paper"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var documentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Handler holds the upload dependencies.
type Handler struct {
	Storage  storage.Store
	Profiles *profilestore.Store
	Avatars  *avatarcache.Cache
	Log      *zap.Logger
}

func NewHandler(store storage.Store, profiles *profilestore.Store, avatars *avatarcache.Cache, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, Profiles: profiles, Avatars: avatars, Log: logger}
}

// Upload handles POST /api/uploads. Multipart form with fields "file"
// and "kind". Faculty upload to their own profile; photo and banner
// uploads also set the matching media URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.writeUploadError(w, &errs.UploadError{Cause: errs.UploadUnauthorized})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	kind := Kind(normalize.QueryParam(r.FormValue("kind")))
	switch kind {
	case KindPhoto, KindBanner, KindCertificate, KindPaper:
	default:
		writeError(w, http.StatusBadRequest, "Unknown upload kind")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedType(kind, contentType) {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("Unsupported content type %q", contentType))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	path, err := h.put(ctx, header.Filename, file, contentType)
	if err != nil {
		h.writeUploadError(w, classify(err))
		return
	}

	url := h.Storage.URL(path)

	// Photo and banner uploads update the profile directly.
	if kind == KindPhoto || kind == KindBanner {
		var photoURL, bannerURL *string
		if kind == KindPhoto {
			photoURL = &url
		} else {
			bannerURL = &url
		}
		if err := h.Profiles.UpdateMedia(ctx, user.Email, photoURL, bannerURL); err != nil {
			h.Log.Error("media update after upload failed",
				zap.String("email", user.Email), zap.Error(err))
			h.writeUploadError(w, classify(err))
			return
		}
		if kind == KindPhoto && h.Avatars != nil {
			h.Avatars.Set(normalize.Email(user.Email), url)
		}
	}

	h.Log.Info("file uploaded",
		zap.String("email", user.Email),
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Int64("size", header.Size))

	writeJSON(w, http.StatusCreated, map[string]string{"path": path, "url": url})
}

// Delete handles DELETE /api/uploads?path=… and removes one stored blob.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		h.writeUploadError(w, &errs.UploadError{Cause: errs.UploadUnauthorized})
		return
	}

	path := normalize.QueryParam(r.URL.Query().Get("path"))
	if path == "" || filepath.IsAbs(path) || containsDotDot(path) {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Storage.Delete(ctx, path); err != nil {
		h.Log.Error("blob delete failed", zap.String("path", path), zap.Error(err))
		h.writeUploadError(w, classify(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Resolve handles GET /api/uploads/resolve?path=… and returns a URL the
// client can fetch: a presigned URL for remote stores, the public path
// for local storage.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		h.writeUploadError(w, &errs.UploadError{Cause: errs.UploadUnauthorized})
		return
	}

	path := normalize.QueryParam(r.URL.Query().Get("path"))
	if path == "" {
		writeError(w, http.StatusBadRequest, "Missing path")
		return
	}

	if _, ok := h.Storage.(*storage.Local); ok {
		writeJSON(w, http.StatusOK, map[string]string{"url": h.Storage.URL(path)})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	signed, err := h.Storage.PresignedURL(ctx, path, &storage.PresignOptions{
		Expires: 15 * time.Minute,
	})
	if err != nil {
		h.Log.Error("presign failed", zap.String("path", path), zap.Error(err))
		h.writeUploadError(w, classify(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": signed})
}

// put stores the file under uploads/YYYY/MM/<uuid8>-<name>.
func (h *Handler) put(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("uploads/%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	if err := h.Storage.Put(ctx, path, r, &storage.PutOptions{ContentType: contentType}); err != nil {
		return "", err
	}
	return path, nil
}

func allowedType(kind Kind, contentType string) bool {
	switch kind {
	case KindPhoto, KindBanner:
		return imageTypes[contentType]
	default:
		return documentTypes[contentType]
	}
}

// classify maps a storage failure onto the user-facing upload causes.
func classify(err error) *errs.UploadError {
	var ue *errs.UploadError
	if errors.As(err, &ue) {
		return ue
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &errs.UploadError{Cause: errs.UploadCancelled, Err: err}
	default:
		return &errs.UploadError{Cause: errs.UploadUnknown, Err: err}
	}
}

func (h *Handler) writeUploadError(w http.ResponseWriter, ue *errs.UploadError) {
	status := http.StatusInternalServerError
	switch ue.Cause {
	case errs.UploadUnauthorized:
		status = http.StatusUnauthorized
	case errs.UploadCancelled:
		status = 499 // client closed request
	}
	writeJSON(w, status, map[string]string{"error": ue.Message()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func containsDotDot(p string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
