package viewer

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-vcard"
	qrcode "github.com/skip2/go-qrcode"

	"seulink/internal/domain"
)

// DefaultQRSize is the edge length of the generated QR code in pixels.
const DefaultQRSize = 200

// VCardContentType is served with contact downloads.
const VCardContentType = "text/vcard; charset=utf-8"

// VCard encodes p as a version 3.0 contact pointing at pageURL.
func VCard(p domain.UserProfile, pageURL string) ([]byte, error) {
	name := p.FullName
	if name == "" {
		name = p.Username
	}

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "3.0")
	card.SetValue(vcard.FieldFormattedName, name)
	card.SetValue(vcard.FieldNote, p.Bio)
	card.SetValue(vcard.FieldURL, pageURL)
	if p.AvatarURL != "" {
		card.Set(vcard.FieldPhoto, &vcard.Field{
			Value:  p.AvatarURL,
			Params: vcard.Params{vcard.ParamValue: {"uri"}},
		})
	}

	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, fmt.Errorf("failed to encode vcard: %w", err)
	}
	return buf.Bytes(), nil
}

// VCardFilename is the download name for p's contact card.
func VCardFilename(p domain.UserProfile) string {
	return p.Username + ".vcf"
}

// QRCode renders url as a PNG with medium error correction.
func QRCode(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
