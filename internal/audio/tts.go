// Package audio synthesizes the spoken words the listening minigame plays,
// using Google Translate's free text-to-speech endpoint.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ttsRequestTimeout = 10 * time.Second

// TTSService turns words into MP3 files under audioDir
type TTSService struct {
	audioDir string
	language string
}

// NewTTSService creates a TTS service that speaks Spanish
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		language: "es",
	}
}

// accentReplacer maps accented Spanish characters to their filename-safe
// equivalents so "plátano" lands in platano.mp3
var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	" ", "_",
)

// Filename returns the audio filename a word maps to
func Filename(word string) string {
	sanitized := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(word)))
	return sanitized + ".mp3"
}

// GenerateAudioFile synthesizes one word and saves it as MP3, returning the
// filename. Words that already have a file on disk are not fetched again
func (s *TTSService) GenerateAudioFile(word string) (string, error) {
	filename := Filename(word)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetchGoogleTTS(word, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}
	return filename, nil
}

// fetchGoogleTTS downloads the spoken word from Google Translate's TTS
// endpoint. No API key needed
func (s *TTSService) fetchGoogleTTS(word, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", word)
	params.Set("tl", s.language)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(word)))

	fullURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// BatchGenerateAudio generates audio files for multiple words, returning the
// filename each word landed in
func (s *TTSService) BatchGenerateAudio(words []string) (map[string]string, error) {
	results := make(map[string]string)
	for _, word := range words {
		filename, err := s.GenerateAudioFile(word)
		if err != nil {
			return results, fmt.Errorf("failed to generate audio for '%s': %w", word, err)
		}
		results[word] = filename
	}
	return results, nil
}

// ListAudioFiles returns the MP3 files currently in the audio directory
func (s *TTSService) ListAudioFiles() ([]string, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var audioFiles []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			audioFiles = append(audioFiles, file.Name())
		}
	}
	return audioFiles, nil
}
