package waexport

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var attachedMarkerRe = regexp.MustCompile(`<attached:\s*([^>]+?)\s*>`)

// ContentRules is the immutable configuration used to classify message
// bodies. Build variants with the With* methods.
type ContentRules struct {
	mediaKinds     map[string]MediaType
	omittedPhrases []string
	systemPhrases  []string
	fileAttachedRe *regexp.Regexp
}

var defaultMediaKinds = map[string]MediaType{
	"jpg": MediaTypeImage, "jpeg": MediaTypeImage, "png": MediaTypeImage, "gif": MediaTypeImage, "webp": MediaTypeImage,
	"mp4": MediaTypeVideo, "avi": MediaTypeVideo, "mov": MediaTypeVideo, "mkv": MediaTypeVideo,
	"opus": MediaTypeAudio, "mp3": MediaTypeAudio, "ogg": MediaTypeAudio, "aac": MediaTypeAudio, "m4a": MediaTypeAudio,
	"pdf": MediaTypeDocument, "doc": MediaTypeDocument, "docx": MediaTypeDocument, "xls": MediaTypeDocument, "xlsx": MediaTypeDocument,
}

var defaultOmittedPhrases = []string{
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"document omitted",
	"gif omitted",
	"<media omitted>",
}

// Bare verbs like "added" or "left" are deliberately absent: they show up in
// ordinary text. Sender-less dashed lines are system messages regardless.
var defaultSystemPhrases = []string{
	"created group",
	"created this group",
	"added you",
	"you added",
	"removed you",
	"you removed",
	"you left",
	"left the group",
	"joined using this group's invite link",
	"joined using an invite link",
	"changed the subject",
	"changed the group name",
	"changed this group's icon",
	"changed the group icon",
	"deleted this group's icon",
	"changed the group description",
	"changed this group's settings",
	"messages and calls are end-to-end encrypted",
	"security code with",
	"security code changed",
	"changed their phone number",
	"is now an admin",
	"you're now an admin",
}

// DefaultContentRules returns the English rule set
func DefaultContentRules() ContentRules {
	return NewContentRules(defaultMediaKinds, defaultOmittedPhrases, defaultSystemPhrases)
}

// NewContentRules builds a rule set. Extensions are matched case-insensitively
// and phrases as case-insensitive substrings.
func NewContentRules(mediaKinds map[string]MediaType, omitted, system []string) ContentRules {
	kinds := make(map[string]MediaType, len(mediaKinds))
	for ext, kind := range mediaKinds {
		kinds[strings.ToLower(strings.TrimPrefix(ext, "."))] = kind
	}
	return ContentRules{
		mediaKinds:     kinds,
		omittedPhrases: lowerAll(omitted),
		systemPhrases:  lowerAll(system),
		fileAttachedRe: buildFileAttachedRe(kinds),
	}
}

// WithSystemPhrases returns a copy with extra system phrases appended
func (r ContentRules) WithSystemPhrases(phrases ...string) ContentRules {
	return NewContentRules(r.mediaKinds, r.omittedPhrases, append(append([]string{}, r.systemPhrases...), phrases...))
}

// WithOmittedPhrases returns a copy with extra omission phrases appended
func (r ContentRules) WithOmittedPhrases(phrases ...string) ContentRules {
	return NewContentRules(r.mediaKinds, append(append([]string{}, r.omittedPhrases...), phrases...), r.systemPhrases)
}

// SystemPhrases returns the configured system phrases (lowercased)
func (r ContentRules) SystemPhrases() []string {
	return append([]string{}, r.systemPhrases...)
}

// MediaTypeFor maps a filename to its media kind, defaulting to document
func (r ContentRules) MediaTypeFor(filename string) MediaType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if kind, ok := r.mediaKinds[ext]; ok {
		return kind
	}
	return MediaTypeDocument
}

// Analyze classifies the first line of a message body. Attachment markers win
// over omission placeholders, which win over system phrases.
func (r ContentRules) Analyze(body string) (MessageType, *Media) {
	if m := attachedMarkerRe.FindStringSubmatch(body); m != nil {
		return MessageTypeMedia, &Media{Filename: m[1], MediaType: r.MediaTypeFor(m[1])}
	}
	if r.fileAttachedRe != nil {
		if m := r.fileAttachedRe.FindStringSubmatch(body); m != nil {
			return MessageTypeMedia, &Media{Filename: m[1], MediaType: r.MediaTypeFor(m[1])}
		}
	}

	lower := strings.ToLower(body)
	for _, p := range r.omittedPhrases {
		if strings.Contains(lower, p) {
			return MessageTypeMediaOmitted, nil
		}
	}
	for _, p := range r.systemPhrases {
		if strings.Contains(lower, p) {
			return MessageTypeSystem, nil
		}
	}
	return MessageTypeText, nil
}

// MediaTypeForFilename maps a filename with the default extension table
func MediaTypeForFilename(filename string) MediaType {
	return defaultRules.MediaTypeFor(filename)
}

var defaultRules = DefaultContentRules()

// StripAttachmentMarkup removes attachment markup for display. Stored message
// content keeps it.
func StripAttachmentMarkup(content string) string {
	out := attachedMarkerRe.ReplaceAllString(content, "")
	out = fileAttachedLineRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

var fileAttachedLineRe = regexp.MustCompile(`(?m)^.+?\.\w+ \(file attached\)`)

func buildFileAttachedRe(kinds map[string]MediaType) *regexp.Regexp {
	if len(kinds) == 0 {
		return nil
	}
	exts := make([]string, 0, len(kinds))
	for ext := range kinds {
		exts = append(exts, regexp.QuoteMeta(ext))
	}
	// longest first so "jpeg" is tried before "jpg"-like prefixes
	sort.Slice(exts, func(i, j int) bool {
		if len(exts[i]) != len(exts[j]) {
			return len(exts[i]) > len(exts[j])
		}
		return exts[i] < exts[j]
	})
	return regexp.MustCompile(`^(.+?\.(?i:` + strings.Join(exts, "|") + `)) \(file attached\)`)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
