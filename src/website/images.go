package website

import (
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/cdn"
	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/images"
	"git.shiro.blog/shiro/shiro/src/models"
	"github.com/google/uuid"
)

type imageJson struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	Url         string    `json:"url"`
	StoragePath string    `json:"storagePath"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	AltText     *string   `json:"altText"`
}

func imageToJson(c *RequestContext, image *models.Image) imageJson {
	return imageJson{
		ID:          image.ID,
		Filename:    image.Filename,
		Url:         c.Storage.PublicURL(image.StoragePath),
		StoragePath: image.StoragePath,
		MimeType:    image.MimeType,
		Size:        image.Size,
		Width:       image.Width,
		Height:      image.Height,
		AltText:     image.AltText,
	}
}

func AdminImageIndex(c *RequestContext) ResponseData {
	all, err := images.FetchAll(c, c.Conn)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result := make([]imageJson, 0, len(all))
	for _, image := range all {
		result = append(result, imageToJson(c, image))
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

type imageCreateJson struct {
	Filename    string  `json:"filename"`
	StoragePath string  `json:"storagePath"`
	MimeType    string  `json:"mimeType"`
	Size        int64   `json:"size"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	AltText     *string `json:"altText"`
}

// AdminImageCreate registers metadata for an object the browser already
// uploaded through a signed URL.
func AdminImageCreate(c *RequestContext) ResponseData {
	var in imageCreateJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	image, err := images.Create(c, c.Conn, images.CreateInput{
		Filename:    in.Filename,
		StoragePath: in.StoragePath,
		MimeType:    in.MimeType,
		Size:        in.Size,
		Width:       in.Width,
		Height:      in.Height,
		AltText:     in.AltText,
	})
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	res := ResponseData{StatusCode: http.StatusCreated}
	res.WriteJson(imageToJson(c, image))
	return res
}

func AdminImageDelete(c *RequestContext) ResponseData {
	id, err := uuid.Parse(c.PathParams["id"])
	if err != nil {
		return c.ErrorResponse(http.StatusNotFound)
	}

	image, fetchErr := images.Fetch(c, c.Conn, id)

	if err := images.Delete(c, c.Conn, c.Storage, id); err != nil {
		return c.ErrorsAsResponse(err)
	}

	if fetchErr == nil {
		cdn.PurgePaths(c, "/"+image.StoragePath)
	}

	return ResponseData{StatusCode: http.StatusNoContent}
}

type signUploadJson struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type signedUploadJson struct {
	Url         string    `json:"url"`
	Method      string    `json:"method"`
	StoragePath string    `json:"storagePath"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

/*
AdminSignUpload validates the proposed upload and hands back a presigned URL
plus the storage path the client must register afterward via AdminImageCreate.
The image bytes themselves never pass through this server.
*/
func AdminSignUpload(c *RequestContext) ResponseData {
	var in signUploadJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	if err := images.ValidateUpload(in.MimeType, in.Size); err != nil {
		return c.ErrorsAsResponse(err)
	}

	storagePath := images.StoragePath(config.Config.Storage.KeyPrefix, in.Filename)
	signed, err := c.Storage.SignUpload(c, storagePath, in.MimeType)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(signedUploadJson{
		Url:         signed.URL,
		Method:      signed.Method,
		StoragePath: storagePath,
		ExpiresAt:   signed.ExpiresAt.UTC(),
	})
	return res
}
