package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ns-advisor/config"
	"ns-advisor/models"
)

var (
	ErrMissingSettingsRoot  = errors.New("no Loop settings directory configured")
	ErrSettingsFileNotFound = errors.New(config.LOOP_SETTINGS_FILE_NAME + " was not found")
	ErrInvalidSettingsJSON  = errors.New(config.LOOP_SETTINGS_FILE_NAME + " is not a JSON object")
)

// Candidate keys, most specific first. Each table is checked at the top level,
// then inside the nested "preferences" object.
var (
	nightscoutURLKeys = []string{
		"nightscoutURL", "nightscoutUrl", "nightscout_url", "nightscoutSite",
		"nightscout", "siteURL", "siteUrl", "site_url", "url",
	}
	apiTokenKeys = []string{
		"apiSecret", "apisecret", "api_token", "token", "secret",
		"nightscoutToken", "nightscoutSecret",
	}
)

// basalFormat describes one known layout of a basal schedule array.
type basalFormat struct {
	key, startKey, rateKey string
}

var basalFormats = []basalFormat{
	{key: "basal", startKey: "startTime", rateKey: "rate"},
	{key: "basal_schedule", startKey: "start", rateKey: "value"},
}

// LocateLoopSettingsFile walks root looking for freeaps_settings.json.
func LocateLoopSettingsFile(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", ErrMissingSettingsRoot
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == config.LOOP_SETTINGS_FILE_NAME {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w in %q", ErrSettingsFileNotFound, root)
		}
		return "", fmt.Errorf("failed to search %q: %w", root, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w in %q", ErrSettingsFileNotFound, root)
	}
	return found, nil
}

// ReadLoopSettingsFromJSON loads a settings file and infers the Nightscout
// connection and basal schedule from it.
func ReadLoopSettingsFromJSON(filePath string) (*models.LoopSettingsSnapshot, error) {
	dictionary, err := readSettingsObject(filePath)
	if err != nil {
		return nil, err
	}

	pretty, err := json.MarshalIndent(redactSecrets(dictionary), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	token := InferAPIToken(dictionary)
	return &models.LoopSettingsSnapshot{
		NightscoutURL: InferNightscoutURL(dictionary),
		APISecret:     token,
		HasAPISecret:  token != "",
		BasalSchedule: InferBasalSchedule(dictionary),
		FileLocation:  filePath,
		RawJSON:       string(pretty),
	}, nil
}

// WriteAdvisorSignature stamps the settings file with the time it was last touched.
// Keys are written sorted; the file is replaced atomically.
func WriteAdvisorSignature(filePath string, now time.Time) error {
	dictionary, err := readSettingsObject(filePath)
	if err != nil {
		return err
	}
	dictionary[config.LOOP_ADVISOR_SIGNATURE_KEY] = now.UTC().Format(time.RFC3339)

	serialized, err := json.MarshalIndent(dictionary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".freeaps_settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(serialized); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to replace %q: %w", filePath, err)
	}
	return nil
}

func readSettingsObject(filePath string) (map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var dictionary map[string]interface{}
	if err := json.Unmarshal(data, &dictionary); err != nil || dictionary == nil {
		return nil, ErrInvalidSettingsJSON
	}
	return dictionary, nil
}

// REDACTED_SECRET replaces token values in the raw JSON shown to clients.
const REDACTED_SECRET = "[redacted]"

// redactSecrets returns a copy of dictionary with every non-empty token key masked,
// at the top level and inside "preferences".
func redactSecrets(dictionary map[string]interface{}) map[string]interface{} {
	redact := func(scope map[string]interface{}) map[string]interface{} {
		out := make(map[string]interface{}, len(scope))
		for k, v := range scope {
			out[k] = v
		}
		for _, key := range apiTokenKeys {
			if v, ok := out[key].(string); ok && v != "" {
				out[key] = REDACTED_SECRET
			}
		}
		return out
	}

	out := redact(dictionary)
	if nested, ok := dictionary["preferences"].(map[string]interface{}); ok {
		out["preferences"] = redact(nested)
	}
	return out
}

// InferNightscoutURL returns the first candidate key holding an http(s) URL.
func InferNightscoutURL(dictionary map[string]interface{}) string {
	return firstString(dictionary, nightscoutURLKeys, func(v string) bool {
		return strings.Contains(strings.ToLower(v), "http")
	})
}

// InferAPIToken returns the first candidate key holding a non-empty string.
func InferAPIToken(dictionary map[string]interface{}) string {
	return firstString(dictionary, apiTokenKeys, func(v string) bool {
		return v != ""
	})
}

// InferBasalSchedule formats the first non-empty known basal layout as "<start> – <rate> U/hr".
func InferBasalSchedule(dictionary map[string]interface{}) []string {
	results := []string{}
	for _, format := range basalFormats {
		entries, _ := dictionary[format.key].([]interface{})
		for _, e := range entries {
			entry, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			start, okStart := entry[format.startKey].(string)
			rate, okRate := entry[format.rateKey].(float64)
			if okStart && okRate {
				results = append(results, fmt.Sprintf("%s – %s U/hr", start, strconv.FormatFloat(rate, 'f', -1, 64)))
			}
		}
		if len(results) > 0 {
			break
		}
	}
	return results
}

func firstString(dictionary map[string]interface{}, keys []string, accept func(string) bool) string {
	scopes := []map[string]interface{}{dictionary}
	if nested, ok := dictionary["preferences"].(map[string]interface{}); ok {
		scopes = append(scopes, nested)
	}
	for _, scope := range scopes {
		for _, key := range keys {
			if v, ok := scope[key].(string); ok && accept(v) {
				return v
			}
		}
	}
	return ""
}
