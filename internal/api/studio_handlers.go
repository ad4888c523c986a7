package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ecomlens/internal/export"
	"ecomlens/internal/studio"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 20 << 20

var acceptedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

type UploadImageRequest struct {
	Image string `json:"image" example:"data:image/png;base64,iVBORw0KGgo..."`
}

type CustomPromptRequest struct {
	Prompt string `json:"prompt" example:"Place the product on a marble kitchen counter"`
}

// readSourceImage accepts either a multipart "file" field or a JSON body
// carrying a data URI and returns the image as a data URI.
func readSourceImage(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", errors.New("error parsing multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("error retrieving the file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("error reading the file")
		}
		mime := http.DetectContentType(data)
		if !acceptedImageTypes[mime] {
			return "", errors.New("unsupported image type " + mime)
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("invalid request body")
	}
	if strings.TrimSpace(req.Image) == "" {
		return "", errors.New("image is required")
	}
	return req.Image, nil
}

// @Summary      Upload source image
// @Description  Sets the product photo for this session's workspace and drops earlier results. Accepts multipart "file" or JSON {"image": "<data uri>"}.
// @Tags         studio
// @Accept       mpfd
// @Accept       json
// @Security     BearerAuth
// @Param        file  formData  file  false  "Product image (png, jpeg, webp)"
// @Success      204   {null}    nil "No Content"
// @Failure      400   {string}  string "Bad Request"
// @Failure      401   {string}  string "Unauthorized"
// @Router       /workspace/image [put]
func (s *Server) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	image, err := readSourceImage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.studio.Upload(claims.SessionID, image); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Clear workspace
// @Description  Removes the source image and all generated assets of this session.
// @Tags         studio
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Router       /workspace [delete]
func (s *Server) ClearWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	s.studio.Clear(claims.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio.ErrNoSourceImage):
		http.Error(w, "Upload a product image first", http.StatusBadRequest)
	case errors.Is(err, studio.ErrEmptyPrompt):
		http.Error(w, "Prompt cannot be empty", http.StatusBadRequest)
	case errors.Is(err, studio.ErrQuotaExceeded):
		http.Error(w, "You have reached your daily limit. Please contact admin for more access.", http.StatusTooManyRequests)
	default:
		s.log.Error("generation failed", slog.Any("error", err))
		http.Error(w, "Failed to generate image. Please try again.", http.StatusBadGateway)
	}
}

// @Summary      Generate preset batch
// @Description  Renders every preset style for the uploaded image. One credit is charged per batch; failed styles are skipped.
// @Tags         studio
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  studio.Result
// @Failure      400  {string}  string "Upload a product image first"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      429  {string}  string "Daily limit reached"
// @Router       /generate/batch [post]
func (s *Server) GenerateBatchHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	res, err := s.studio.GenerateBatch(r.Context(), claims.SessionID, user)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary      Generate custom edit
// @Description  Renders one free-text edit of the uploaded image. The credit is charged even when generation fails.
// @Tags         studio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CustomPromptRequest  true  "Edit instruction"
// @Success      201      {object}  studio.Result
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      429      {string}  string "Daily limit reached"
// @Failure      502      {string}  string "Generation failed"
// @Router       /generate/custom [post]
func (s *Server) GenerateCustomHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	var req CustomPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.studio.GenerateCustom(r.Context(), claims.SessionID, user, req.Prompt)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// @Summary      List generated assets
// @Tags         studio
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Asset
// @Failure      401  {string}  string "Unauthorized"
// @Router       /assets [get]
func (s *Server) ListAssetsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, s.studio.Assets(claims.SessionID))
}

// @Summary      Download an asset
// @Description  Streams the generated image as an attachment named ecomlens-<category>.png.
// @Tags         studio
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        assetId  path      string  true  "Asset ID"
// @Success      200      {file}    file
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "Asset not found"
// @Router       /assets/{assetId}/download [get]
func (s *Server) DownloadAssetHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())

	asset, err := s.studio.Asset(claims.SessionID, chi.URLParam(r, "assetId"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	mime, data, err := export.DecodeDataURI(asset.DataURI)
	if err != nil {
		s.log.Error("stored asset is not a valid data uri", slog.String("asset_id", asset.ID), slog.Any("error", err))
		http.Error(w, "Failed to decode asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+export.FileName(asset.Category)+"\"")
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// @Summary      List preset styles
// @Tags         studio
// @Produce      json
// @Success      200  {array}  models.Preset
// @Router       /presets [get]
func (s *Server) ListPresetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Presets())
}
