package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

// AvatarService renders initials avatars and processes uploaded images.
// Rendered avatars are stored inline as data URLs; there is no object
// store in this deployment.
type AvatarService interface {
	AssignInitialsAvatar(ctx context.Context, user *types.User) error
	AvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	log      *logger.Logger
	bgColors []color.NRGBA
	fontFace font.Face
}

var defaultAvatarPalette = []color.NRGBA{
	{R: 0x4C, G: 0x6E, B: 0xF5, A: 0xFF},
	{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
	{R: 0x14, G: 0xB8, B: 0xA6, A: 0xFF},
}

func NewAvatarService(log *logger.Logger) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	s := &avatarService{
		log:      serviceLog,
		bgColors: defaultAvatarPalette,
	}

	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		face, err := loadFontFace(fontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		s.fontFace = face
	} else {
		serviceLog.Warn("AVATAR_FONT not set; using built-in face for initials")
	}

	return s, nil
}

func (as *avatarService) AssignInitialsAvatar(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("user required")
	}
	as.ensureUserAvatarColor(user)

	buf, err := as.renderInitials(user)
	if err != nil {
		return err
	}
	user.AvatarURL = pngDataURL(buf.Bytes())
	return nil
}

func (as *avatarService) AvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	user.AvatarURL = pngDataURL(processed.Bytes())
	return nil
}

func (as *avatarService) renderInitials(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	base := as.pickColor(user.AvatarColor)
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)

	if as.fontFace != nil {
		dc.SetFontFace(as.fontFace)
	}
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func pngDataURL(raw []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func (as *avatarService) ensureUserAvatarColor(user *types.User) {
	if strings.TrimSpace(user.AvatarColor) != "" {
		if normalizeHex(user.AvatarColor) != "" {
			user.AvatarColor = normalizeHex(user.AvatarColor)
			return
		}
	}
	pick := as.bgColors[rand.Intn(len(as.bgColors))]
	user.AvatarColor = nrgbaToHex(pick)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	if h := normalizeHex(hexStr); h != "" {
		if r, g, b, err := parseHexRGB(h); err == nil {
			return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
		}
	}
	return as.bgColors[rand.Intn(len(as.bgColors))]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	if _, _, _, err := parseHexRGB(s); err != nil {
		return ""
	}
	return s
}

func parseHexRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid hex")
	}
	return raw[0], raw[1], raw[2], nil
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
