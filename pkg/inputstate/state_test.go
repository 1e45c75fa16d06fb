package inputstate

import (
	"testing"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/styledtext"
)

func testState(t *testing.T) VersionedState {
	t.Helper()
	content := styledtext.Plain("A", styledtext.TextAttributes{FontSize: 16})
	state, err := New(
		content,
		styledtext.DefaultParagraphAttributes(),
		styledtext.TextAttributes{FontSize: 16, FontFamily: "Inter"},
		ParentContext{Tag: 11, Frame: Frame{Width: 320, Height: 44}},
		ThemePadding{Start: 4, End: 4, Top: 2, Bottom: 2},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return state
}

func int64p(v int64) *int64 { return &v }

func TestNewValidatesParagraphAttributes(t *testing.T) {
	attrs := styledtext.DefaultParagraphAttributes()
	attrs.MinimumFontSize = 12 // half-defined bound
	_, err := New(styledtext.AttributedString{}, attrs, styledtext.TextAttributes{}, ParentContext{}, ThemePadding{})
	if err == nil {
		t.Error("expected validation error for inconsistent paragraph attributes")
	}
}

func TestNewSnapshotsCommittedContent(t *testing.T) {
	s := testState(t)
	if !s.CommittedContent.Equal(s.Content) {
		t.Error("mount state should commit the initial content")
	}
	if s.EventCount != 0 || s.CachedContentID != 0 {
		t.Errorf("fresh state counters = (%d, %d), want (0, 0)", s.EventCount, s.CachedContentID)
	}
}

func TestDeriveEmptyPatchIsIdentity(t *testing.T) {
	s := testState(t)
	got := Derive(s, PartialPatch{Origin: OriginLiveEdit})
	if !got.Equal(s) {
		t.Errorf("Derive(s, empty) = %+v, want s unchanged", got)
	}
	got = Derive(s, PartialPatch{Origin: OriginTree})
	if !got.Equal(s) {
		t.Error("empty tree patch should also be identity")
	}
}

func TestDeriveLiveEditPreservesContent(t *testing.T) {
	s := testState(t)

	// A live-edit patch never carries style runs back; even if a caller
	// populates the content fields, the previous content wins.
	rogue := styledtext.Plain("should be ignored", styledtext.TextAttributes{})
	attrs := styledtext.DefaultParagraphAttributes()
	attrs.MaximumNumberOfLines = 9

	got := Derive(s, PartialPatch{
		Origin:              OriginLiveEdit,
		EventCount:          int64p(3),
		Content:             &rogue,
		ParagraphAttributes: &attrs,
	})

	if !got.Content.Equal(s.Content) {
		t.Error("live edit must not replace content")
	}
	if !got.CommittedContent.Equal(s.CommittedContent) {
		t.Error("live edit must not replace committed content")
	}
	if !got.ParagraphAttributes.Equal(s.ParagraphAttributes) {
		t.Error("live edit must not replace paragraph attributes")
	}
	if got.EventCount != 3 {
		t.Errorf("EventCount = %d, want 3", got.EventCount)
	}
}

func TestDeriveScenario(t *testing.T) {
	// previous = {eventCount:5, cachedContentId:0, content:"A"},
	// patch {mostRecentEventCount:6, opaqueCacheId:42}
	// => {eventCount:6, cachedContentId:42, content:"A"}.
	s := testState(t)
	s.EventCount = 5

	patch, err := DecodePatch(bridge.Payload{
		"mostRecentEventCount": int64(6),
		"opaqueCacheId":        int64(42),
	}, s)
	if err != nil {
		t.Fatalf("DecodePatch: %v", err)
	}

	got := Derive(s, patch)
	if got.EventCount != 6 {
		t.Errorf("EventCount = %d, want 6", got.EventCount)
	}
	if got.CachedContentID != 42 {
		t.Errorf("CachedContentID = %d, want 42", got.CachedContentID)
	}
	if got.Content.String() != "A" {
		t.Errorf("Content = %q, want %q", got.Content.String(), "A")
	}
}

func TestDeriveEventCountComesFromPatchUnconditionally(t *testing.T) {
	// The container applies whatever the patch declares; ordering policy
	// lives with the collaborator.
	s := testState(t)
	s.EventCount = 10

	got := Derive(s, PartialPatch{Origin: OriginLiveEdit, EventCount: int64p(4)})
	if got.EventCount != 4 {
		t.Errorf("EventCount = %d, want 4 (patch wins regardless of previous)", got.EventCount)
	}
}

func TestDeriveTreePatchReplacesContent(t *testing.T) {
	s := testState(t)
	s.EventCount = 7
	s.CachedContentID = 3

	content := styledtext.Plain("B", styledtext.TextAttributes{FontSize: 16})
	attrs := styledtext.DefaultParagraphAttributes()
	attrs.MaximumNumberOfLines = 1

	got := Derive(s, PartialPatch{
		Origin:              OriginTree,
		Content:             &content,
		ParagraphAttributes: &attrs,
	})

	if got.Content.String() != "B" {
		t.Errorf("Content = %q, want %q", got.Content.String(), "B")
	}
	if !got.CommittedContent.Equal(content) {
		t.Error("tree patch should snapshot the committed content")
	}
	if got.ParagraphAttributes.MaximumNumberOfLines != 1 {
		t.Error("tree patch should replace paragraph attributes")
	}
	// Bookkeeping is inherited on the tree path.
	if got.EventCount != 7 || got.CachedContentID != 3 {
		t.Errorf("counters = (%d, %d), want (7, 3)", got.EventCount, got.CachedContentID)
	}
}

func TestDeriveThemePaddingOverwritesOnlyPresentFields(t *testing.T) {
	s := testState(t)

	start := 8.0
	got := Derive(s, PartialPatch{Origin: OriginLiveEdit, ThemePaddingStart: &start})
	want := ThemePadding{Start: 8, End: 4, Top: 2, Bottom: 2}
	if got.ThemePadding != want {
		t.Errorf("ThemePadding = %+v, want %+v", got.ThemePadding, want)
	}
}

func TestDeriveDoesNotMutatePrevious(t *testing.T) {
	s := testState(t)
	snapshot := s

	start := 99.0
	_ = Derive(s, PartialPatch{
		Origin:            OriginLiveEdit,
		EventCount:        int64p(50),
		ThemePaddingStart: &start,
	})

	if !s.Equal(snapshot) {
		t.Error("Derive must not mutate the previous state")
	}
}

func TestPayloadCacheShortCircuit(t *testing.T) {
	s := testState(t)
	s.EventCount = 6
	s.CachedContentID = 42

	p := s.Payload(SerializeCaps{IncludeContent: true})
	if _, present := p["attributedString"]; present {
		t.Error("cached content must never be retransmitted")
	}
	if _, present := p["paragraphAttributes"]; present {
		t.Error("paragraph attributes must be omitted with a cache id")
	}
	if _, present := p["hash"]; present {
		t.Error("hash must be omitted with a cache id")
	}
	if v, _, _ := bridge.Int64(p, "mostRecentEventCount"); v != 6 {
		t.Errorf("mostRecentEventCount = %d, want 6", v)
	}
	if v, _, _ := bridge.Int64(p, "opaqueCacheId"); v != 42 {
		t.Errorf("opaqueCacheId = %d, want 42", v)
	}
}

func TestPayloadIncludesContentWhenNotCached(t *testing.T) {
	s := testState(t)

	p := s.Payload(SerializeCaps{IncludeContent: true})
	content, present, ok := bridge.Map(p, "attributedString")
	if !present || !ok {
		t.Fatal("expected attributedString in payload")
	}
	if _, present := p["paragraphAttributes"]; !present {
		t.Error("expected paragraphAttributes in payload")
	}
	h, _, _ := bridge.Int64(p, "hash")
	if uint64(h) != s.Content.Hash() {
		t.Errorf("hash = %d, want content hash %d", uint64(h), s.Content.Hash())
	}
	if innerHash, _, _ := bridge.Int64(content, "hash"); innerHash != h {
		t.Error("top-level hash should match the serialized content's hash")
	}
}

func TestPayloadWithoutContentCapability(t *testing.T) {
	s := testState(t)
	p := s.Payload(SerializeCaps{})
	if _, present := p["attributedString"]; present {
		t.Error("hosts without the capability only get bookkeeping fields")
	}
}

func TestPayloadDecodeDeriveRoundTrip(t *testing.T) {
	// decode(serialize(s)) applied to the same previous state must
	// reproduce every scalar bit-for-bit.
	s := testState(t)
	s.EventCount = 9
	s.CachedContentID = 7
	s.ThemePadding = ThemePadding{Start: 1.5, End: 2.25, Top: 0.125, Bottom: 3}

	patch, err := DecodePatch(s.Payload(SerializeCaps{IncludeContent: true}), s)
	if err != nil {
		t.Fatalf("DecodePatch: %v", err)
	}
	got := Derive(s, patch)
	if !got.Equal(s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}
