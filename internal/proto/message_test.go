package proto

import "testing"

func TestDecodeValidMessages(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		typ  string
	}{
		{"idle bare", `{"type":"idle"}`, TypeIdle},
		{"idle with emotion", `{"type":"idle","emotion":"calm"}`, TypeIdle},
		{"speak full", `{"type":"speak","text":"Bonjour","emotion":"energetic","intensity":0.8}`, TypeSpeak},
		{"emotion change", `{"type":"emotion","emotion":"curious"}`, TypeEmotion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode([]byte(tc.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Type != tc.typ {
				t.Fatalf("unexpected type: %s", msg.Type)
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"unknown type", `{"type":"dance"}`},
		{"unknown emotion", `{"type":"emotion","emotion":"furious"}`},
		{"empty object", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
		})
	}
}

func TestDecodeClampsIntensity(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"speak","text":"hi","intensity":3.5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Intensity == nil || *msg.Intensity != 1.0 {
		t.Fatalf("expected intensity clamped to 1.0, got %+v", msg.Intensity)
	}

	msg, err = Decode([]byte(`{"type":"speak","text":"hi","intensity":-0.2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Intensity == nil || *msg.Intensity != 0 {
		t.Fatalf("expected intensity clamped to 0, got %+v", msg.Intensity)
	}
}

func TestIntensityOrDefault(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"speak","text":"hi"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Intensity != nil {
		t.Fatalf("absent intensity should stay nil")
	}
	if got := msg.IntensityOrDefault(0.5); got != 0.5 {
		t.Fatalf("expected default 0.5, got %v", got)
	}

	if got := Speak("hi", MoodCalm, 0.7).IntensityOrDefault(0.5); got != 0.7 {
		t.Fatalf("expected explicit 0.7, got %v", got)
	}
}
