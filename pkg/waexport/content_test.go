package waexport

import "testing"

func TestAnalyze(t *testing.T) {
	rules := DefaultContentRules()

	tests := []struct {
		name      string
		body      string
		wantType  MessageType
		wantFile  string
		wantMedia MediaType
	}{
		{"attached image", "<attached: 00000012-PHOTO-2025-01-13-11-52-46.jpg>", MessageTypeMedia, "00000012-PHOTO-2025-01-13-11-52-46.jpg", MediaTypeImage},
		{"attached beats omitted", "<attached: photo.jpg> image omitted", MessageTypeMedia, "photo.jpg", MediaTypeImage},
		{"attached uppercase extension", "<attached: CLIP.MOV>", MessageTypeMedia, "CLIP.MOV", MediaTypeVideo},
		{"attached audio", "<attached: 00000003-AUDIO-2025-01-01.opus>", MessageTypeMedia, "00000003-AUDIO-2025-01-01.opus", MediaTypeAudio},
		{"attached unknown extension", "<attached: archive.zip>", MessageTypeMedia, "archive.zip", MediaTypeDocument},
		{"file attached phrase", "IMG-20250113-WA0001.jpg (file attached)", MessageTypeMedia, "IMG-20250113-WA0001.jpg", MediaTypeImage},
		{"file attached with caption", "Report Q1.PDF (file attached) see page 2", MessageTypeMedia, "Report Q1.PDF", MediaTypeDocument},
		{"file attached unknown extension is text", "notes.txt (file attached)", MessageTypeText, "", ""},
		{"image omitted", "image omitted", MessageTypeMediaOmitted, "", ""},
		{"omitted case insensitive", "Sticker Omitted", MessageTypeMediaOmitted, "", ""},
		{"android media omitted", "<Media omitted>", MessageTypeMediaOmitted, "", ""},
		{"omitted beats system", "changed the subject image omitted", MessageTypeMediaOmitted, "", ""},
		{"system encryption", "Messages and calls are end-to-end encrypted. No one outside of this chat can read them.", MessageTypeSystem, "", ""},
		{"system subject", "Alice changed the subject to \"Trip\"", MessageTypeSystem, "", ""},
		{"plain text", "Hello there", MessageTypeText, "", ""},
		{"ordinary verbs stay text", "I left my keys and added salt", MessageTypeText, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, media := rules.Analyze(tt.body)
			if gotType != tt.wantType {
				t.Fatalf("type = %v, want %v", gotType, tt.wantType)
			}
			if tt.wantType != MessageTypeMedia {
				if media != nil {
					t.Errorf("media = %+v, want nil", media)
				}
				return
			}
			if media == nil {
				t.Fatal("media = nil")
			}
			if media.Filename != tt.wantFile || media.MediaType != tt.wantMedia {
				t.Errorf("media = %+v, want {%s %s}", media, tt.wantFile, tt.wantMedia)
			}
		})
	}
}

func TestContentRules_WithSystemPhrases(t *testing.T) {
	base := DefaultContentRules()
	german := base.WithSystemPhrases("hat die Gruppe erstellt")

	if typ, _ := base.Analyze("Alice hat die Gruppe erstellt"); typ != MessageTypeText {
		t.Errorf("base rules type = %v, want text", typ)
	}
	if typ, _ := german.Analyze("Alice hat die Gruppe erstellt"); typ != MessageTypeSystem {
		t.Errorf("extended rules type = %v, want system", typ)
	}
	if len(base.SystemPhrases()) == len(german.SystemPhrases()) {
		t.Error("WithSystemPhrases modified the receiver")
	}
}

func TestContentRules_WithOmittedPhrases(t *testing.T) {
	rules := DefaultContentRules().WithOmittedPhrases("Bild weggelassen")
	if typ, _ := rules.Analyze("bild weggelassen"); typ != MessageTypeMediaOmitted {
		t.Errorf("type = %v, want media_omitted", typ)
	}
}

func TestNewContentRules_CustomTable(t *testing.T) {
	rules := NewContentRules(map[string]MediaType{".HEIC": MediaTypeImage}, nil, nil)
	typ, media := rules.Analyze("<attached: pic.heic>")
	if typ != MessageTypeMedia || media.MediaType != MediaTypeImage {
		t.Errorf("got %v %+v, want image media", typ, media)
	}
	if typ, _ := rules.Analyze("image omitted"); typ != MessageTypeText {
		t.Errorf("no omitted phrases configured, got %v", typ)
	}
}

func TestMediaTypeForFilename(t *testing.T) {
	tests := map[string]MediaType{
		"a.jpeg": MediaTypeImage,
		"a.WEBP": MediaTypeImage,
		"a.mkv":  MediaTypeVideo,
		"a.m4a":  MediaTypeAudio,
		"a.xlsx": MediaTypeDocument,
		"a.vcf":  MediaTypeDocument,
		"noext":  MediaTypeDocument,
	}
	for name, want := range tests {
		if got := MediaTypeForFilename(name); got != want {
			t.Errorf("MediaTypeForFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStripAttachmentMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<attached: pic.jpg>", ""},
		{"<attached: pic.jpg>\nnice view", "nice view"},
		{"IMG-1.jpg (file attached)\ncaption", "caption"},
		{"no markup here", "no markup here"},
	}
	for _, tt := range tests {
		if got := StripAttachmentMarkup(tt.in); got != tt.want {
			t.Errorf("StripAttachmentMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
