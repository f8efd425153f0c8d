package audit

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/udfnd/zoomclass/internal/core"
)

const (
	DefaultFingerprintType    = "default"
	MeetingSDKFingerprintType = "meeting_sdk"
	VideoSDKFingerprintType   = "video_sdk"
)

var fingerprintRegistry = map[string]core.Fingerprinter{
	DefaultFingerprintType: func(_ string) string {
		return "(n/a)"
	},
}

func RegisterFingerprinter(tokenType string, fn core.Fingerprinter) {
	fingerprintRegistry[tokenType] = fn
}

func CalculateFingerprint(tokenType, token string) string {
	fn, ok := fingerprintRegistry[tokenType]
	if !ok {
		fn = fingerprintRegistry[DefaultFingerprintType]
	}
	return fn(token)
}

func init() {
	RegisterFingerprinter(MeetingSDKFingerprintType, calculateSHA256Fingerprint)
	RegisterFingerprinter(VideoSDKFingerprintType, calculateSHA256Fingerprint)
}

func calculateSHA256Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
