package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var ErrInvalidFileType = errors.New("invalid file type")

const (
	maxImageSize    = 150 * 1024
	minImageSize    = 50 * 1024
	targetImageSize = 100 * 1024
	minImageEdge    = 480
)

type FileService interface {
	// UploadAttendanceProof stores a compressed JPEG selfie for a check-in or check-out.
	UploadAttendanceProof(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, kind string) (string, error)
	// UploadLeaveDocument stores a supporting document as is.
	UploadLeaveDocument(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)
	// UploadTaskPhoto stores a compressed JPEG attached to a task completion.
	UploadTaskPhoto(ctx context.Context, taskID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func (s *fileServiceImpl) UploadAttendanceProof(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, kind string) (string, error) {
	compressed, err := readAndCompress(file, filename)
	if err != nil {
		return "", err
	}

	// attendance/{date}/{employeeID}-{kind}-{unix}.jpg
	name := fmt.Sprintf("%s-%s-%d.jpg", employeeID, kind, s.now().Unix())
	key := path.Join(storage.DirAttendanceProof, date.Format("2006-01-02"), name)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance proof: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) UploadLeaveDocument(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := documentTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: only pdf, jpg, jpeg, png allowed", ErrInvalidFileType)
	}

	name := fmt.Sprintf("%s-%d%s", uuid.New().String(), s.now().Unix(), ext)
	key := path.Join(storage.DirLeaveDocument, employeeID, name)

	uploaded, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload leave document: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) UploadTaskPhoto(ctx context.Context, taskID string, file io.Reader, filename string) (string, error) {
	compressed, err := readAndCompress(file, filename)
	if err != nil {
		return "", err
	}

	key := path.Join(storage.DirTaskPhoto, taskID, uuid.New().String()+".jpg")

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload task photo: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string) (string, error) {
	return s.storage.GetURL(ctx, key, 0)
}

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func readAndCompress(file io.Reader, filename string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return nil, fmt.Errorf("%w: only jpg, jpeg, png allowed", ErrInvalidFileType)
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to compress image: %w", err)
	}
	return compressed, nil
}

// compressImage returns a JPEG no larger than maxSize where possible. JPEGs
// already under the limit are kept byte for byte.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" && len(buffer) <= maxSize {
		return buffer, nil
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale down towards the target size, keeping the aspect ratio.
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(targetImageSize) / float64(len(compressed)))
	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)
	if shortest := min(width, height); shortest < minImageEdge && shortest > 0 {
		scale := float64(minImageEdge) / float64(shortest)
		width = min(int(float64(width)*scale), bounds.Dx())
		height = min(int(float64(height)*scale), bounds.Dy())
	}

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
