package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength is the maximum length of response text to include
// in logs. Responses longer than this are truncated so that model output
// containing user text never ends up in log aggregators wholesale.
const MaxLoggedResponseLength = 200

// TruncateForLogging safely truncates a response string for logging purposes.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

var urlSecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`key=[^&"\s]+`),
	regexp.MustCompile(`apiKey=[^&"\s]+`),
	regexp.MustCompile(`api_key=[^&"\s]+`),
	regexp.MustCompile(`token=[^&"\s]+`),
	regexp.MustCompile(`access_token=[^&"\s]+`),
}

var urlSecretReplacements = []string{
	"key=[REDACTED]",
	"apiKey=[REDACTED]",
	"api_key=[REDACTED]",
	"token=[REDACTED]",
	"access_token=[REDACTED]",
}

// RedactURLSecrets redacts API keys and other secrets from URLs in error
// messages. Gemini passes the API key as a ?key= query parameter, so any
// error message that quotes the request URL would otherwise leak it.
//
// Example:
//
//	input:  "https://api.example.com/endpoint?key=secret123&foo=bar"
//	output: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}

	result := text
	for i, re := range urlSecretPatterns {
		result = re.ReplaceAllString(result, urlSecretReplacements[i])
	}

	return result
}
