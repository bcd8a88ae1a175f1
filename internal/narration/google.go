package narration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Synthesizer turns narration text into playable audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, voice string) ([]byte, string, error)
}

// GoogleSynthesizer calls the Google Cloud text-to-speech REST API and
// keeps an on-disk cache keyed by a digest of the request, so repeated
// narration of the same step costs one API call total.
type GoogleSynthesizer struct {
	APIKey   string
	CacheDir string

	mu         sync.Mutex
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

const googleTTSEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

var _ Synthesizer = &GoogleSynthesizer{}

func NewGoogleSynthesizer(apiKey, cacheDir string, logger *zap.Logger) *GoogleSynthesizer {
	os.MkdirAll(cacheDir, 0o755)
	return &GoogleSynthesizer{
		APIKey:   apiKey,
		CacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		endpoint: googleTTSEndpoint,
		logger:   logger,
	}
}

func cacheKey(text, lang, voice string) string {
	h := sha256.Sum256([]byte(lang + ":" + voice + ":" + text))
	return hex.EncodeToString(h[:16])
}

// Synthesize return MP3 audio for text. Cache hits bypass the API, and
// failures are never cached.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, lang, voice string) ([]byte, string, error) {
	key := cacheKey(text, lang, voice)
	cachePath := filepath.Join(g.CacheDir, key+".mp3")
	if data, err := ioutil.ReadFile(cachePath); err == nil {
		return data, "audio/mpeg", nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, err := ioutil.ReadFile(cachePath); err == nil {
		return data, "audio/mpeg", nil
	}

	if g.APIKey == "" {
		return nil, "", fmt.Errorf("narration is not configured")
	}
	data, err := g.callAPI(ctx, text, lang, voice)
	if err != nil {
		g.logger.Warn("speech synthesis failed",
			zap.String("lang", lang),
			zap.Error(err))
		return nil, "", err
	}
	if err := ioutil.WriteFile(cachePath, data, 0o644); err != nil {
		g.logger.Warn("narration cache write failed", zap.Error(err))
	}
	return data, "audio/mpeg", nil
}

func languageCode(lang string) string {
	switch lang {
	case "fr":
		return "fr-FR"
	default:
		return "en-US"
	}
}

func ssmlGender(voice string) string {
	if voice == "male" {
		return "MALE"
	}
	return "FEMALE"
}

func (g *GoogleSynthesizer) callAPI(ctx context.Context, text, lang, voice string) ([]byte, error) {
	url := g.endpoint + "?key=" + g.APIKey

	reqBody := map[string]interface{}{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]interface{}{
			"languageCode": languageCode(lang),
			"ssmlGender":   ssmlGender(voice),
		},
		"audioConfig": map[string]string{
			"audioEncoding": "MP3",
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}
