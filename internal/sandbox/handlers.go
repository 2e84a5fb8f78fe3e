package sandbox

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

// uploadFile handles PUT /rest[/:token].
func (s *Server) uploadFile(c *gin.Context) {
	opts := vault.UploadOptions{
		Expires:     c.Query("expires"),
		BucketToken: c.Param("token"),
	}
	var err error
	if opts.HideFilename, err = queryBool(c, "hide_filename"); err != nil {
		s.writeError(c, err)
		return
	}
	if opts.OneTimeDownload, err = queryBool(c, "one_time_download"); err != nil {
		s.writeError(c, err)
		return
	}

	var src vault.UploadSource
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			s.writeError(c, vault.NewAPIError(http.StatusBadRequest, "file is required"))
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
		if err != nil {
			s.writeError(c, err)
			return
		}
		if len(data) > maxUploadSize {
			s.writeError(c, vault.NewAPIError(http.StatusRequestEntityTooLarge, fmt.Sprintf("File size exceeds maximum of %d bytes", maxUploadSize)))
			return
		}
		src = vault.FileBytes{Data: data, Filename: header.Filename}
	} else {
		u := c.PostForm("url")
		if u == "" {
			s.writeError(c, vault.NewAPIError(http.StatusBadRequest, "url or file is required"))
			return
		}
		src = vault.RemoteURL{URL: u}
	}
	opts.Password = c.PostForm("password")

	rec, err := s.store.UploadFile(c.Request.Context(), src, opts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// fileInfo handles GET /rest/:token.
func (s *Server) fileInfo(c *gin.Context) {
	formatted, err := queryBool(c, "formatted")
	if err != nil {
		s.writeError(c, err)
		return
	}
	rec, err := s.store.FileInfo(c.Request.Context(), c.Param("token"), formatted)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// modifyEntry handles PATCH /rest/:token.
func (s *Server) modifyEntry(c *gin.Context) {
	var payload vault.ModifyEntryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	rec, err := s.store.ModifyEntry(c.Request.Context(), c.Param("token"), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// deleteFile handles DELETE /rest/:token.
func (s *Server) deleteFile(c *gin.Context) {
	if err := s.store.DeleteFile(c.Request.Context(), c.Param("token")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// fileContent handles GET /f/*filename.
func (s *Server) fileContent(c *gin.Context) {
	filename := strings.TrimPrefix(c.Param("filename"), "/")
	data, err := s.store.GetFile(c.Request.Context(), vault.GetFileOptions{
		Filename: filename,
		Password: c.GetHeader("x-password"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

// createBucket handles GET /rest/bucket/create.
func (s *Server) createBucket(c *gin.Context) {
	rec, err := s.store.CreateBucket(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// getBucket handles POST /rest/bucket/get.
func (s *Server) getBucket(c *gin.Context) {
	var req struct {
		BucketToken string `json:"bucket_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	rec, err := s.store.GetBucket(c.Request.Context(), req.BucketToken)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// deleteBucket handles DELETE /rest/bucket/:token.
func (s *Server) deleteBucket(c *gin.Context) {
	if err := s.store.DeleteBucket(c.Request.Context(), c.Param("token")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// createAlbum handles POST /rest/album/:token, token being the bucket.
func (s *Server) createAlbum(c *gin.Context) {
	var body vault.AlbumCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	body.BucketToken = c.Param("token")
	rec, err := s.store.CreateAlbum(c.Request.Context(), body)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type fileTokensRequest struct {
	FileTokens []string `json:"fileTokens"`
}

// associateFiles handles POST /rest/album/:token/associate.
func (s *Server) associateFiles(c *gin.Context) {
	var req fileTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	rec, err := s.store.AssociateFiles(c.Request.Context(), c.Param("token"), req.FileTokens)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// disassociateFiles handles POST /rest/album/:token/disassociate.
func (s *Server) disassociateFiles(c *gin.Context) {
	var req fileTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	rec, err := s.store.DisassociateFiles(c.Request.Context(), c.Param("token"), req.FileTokens)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// getAlbum handles GET /rest/album/:token.
func (s *Server) getAlbum(c *gin.Context) {
	rec, err := s.store.GetAlbum(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// deleteAlbum handles DELETE /rest/album/:token?deleteFiles=<bool>.
func (s *Server) deleteAlbum(c *gin.Context) {
	deleteFiles, err := queryBool(c, "deleteFiles")
	if err != nil {
		s.writeError(c, err)
		return
	}
	res, err := s.store.DeleteAlbum(c.Request.Context(), c.Param("token"), deleteFiles != nil && *deleteFiles)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// shareAlbum handles GET /rest/album/share/:token.
func (s *Server) shareAlbum(c *gin.Context) {
	res, err := s.store.ShareAlbum(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// revokeAlbum handles GET /rest/album/revoke/:token.
func (s *Server) revokeAlbum(c *gin.Context) {
	res, err := s.store.RevokeAlbum(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// downloadAlbum handles POST /rest/album/download/:token.
func (s *Server) downloadAlbum(c *gin.Context) {
	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		s.writeError(c, vault.NewAPIError(http.StatusBadRequest, err.Error()))
		return
	}
	data, err := s.store.DownloadAlbum(c.Request.Context(), c.Param("token"), ids)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="album.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}

// writeError renders err the way the vault does: a JSON error record with the
// matching status.
func (s *Server) writeError(c *gin.Context, err error) {
	var httpErr *vault.HTTPError
	switch {
	case errors.Is(err, vault.ErrIncorrectPassword):
		httpErr = vault.NewAPIError(http.StatusForbidden, err.Error())
	case errors.As(err, &httpErr):
	default:
		s.logger.Error(c.Request.Context(), "sandbox request failed", "path", c.Request.URL.Path, "error", err)
		httpErr = vault.NewAPIError(http.StatusInternalServerError, err.Error())
	}
	c.Data(httpErr.StatusCode, "application/json", httpErr.Body)
	c.Abort()
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, vault.NewAPIError(http.StatusBadRequest, fmt.Sprintf("%s must be a boolean", key))
	}
	return &b, nil
}
