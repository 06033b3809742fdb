package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of an upload is read to detect its type
const sniffLen = 3072

// Upload is a file received with a form
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadFromFileHeader adapts a multipart file
func UploadFromFileHeader(fh *multipart.FileHeader) *Upload {
	if fh == nil {
		return nil
	}
	return &Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ImageInput is one image row. Existing is set for rows that already have a
// stored file.
type ImageInput struct {
	File     *Upload
	Existing bool
}

// ImageFields describe an accepted upload. File is nil when an existing row
// keeps its stored file.
type ImageFields struct {
	File        *Upload
	ContentType string
	Extension   string
}

// ValidateImage requires a file for new rows and checks that any upload is an
// image no larger than maxBytes
func ValidateImage(in ImageInput, maxBytes int64) (ImageFields, Result) {
	res := newResult()

	if in.File == nil {
		if !in.Existing {
			res.Add("image", MsgRequired)
		}
		return ImageFields{}, res
	}

	if maxBytes > 0 && in.File.Size > maxBytes {
		res.Add("image", fmt.Sprintf(msgFileTooLarge, maxBytes))
		return ImageFields{}, res
	}

	mt, err := sniff(in.File)
	if err != nil || !strings.HasPrefix(mt.String(), "image/") {
		res.Add("image", MsgInvalidImage)
		return ImageFields{}, res
	}

	return ImageFields{
		File:        in.File,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, res
}

func sniff(u *Upload) (*mimetype.MIME, error) {
	f, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return mimetype.Detect(head[:n]), nil
}
