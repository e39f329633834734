package pe

import "testing"

func TestRichHeader(t *testing.T) {
	const mask = 0xDEADBEEF

	comp := func(prodID, build uint16) uint32 {
		return uint32(prodID)<<16 | uint32(build)
	}

	words := []uint32{
		DansSignature ^ mask, // 0x80
		mask, mask, mask,     // three masked padding DWORDs
		comp(0x104, 0x685B) ^ mask, 7 ^ mask, // entry at 0x90
		comp(0x00F1, 0x5BD2) ^ mask, 21 ^ mask, // entry at 0x98
		RichSignature, // 0xA0
		mask,
	}

	f := mustLoad(t, buildImage(t, imageSpec{richWords: words}))
	if !f.FileInfo.HasRichHdr {
		t.Fatal("HasRichHdr = false, want true")
	}

	want := []RichHeaderEntry{
		{Offset: 0x90, ProdID: 0x104, Build: 0x685B, Count: 7},
		{Offset: 0x98, ProdID: 0x00F1, Build: 0x5BD2, Count: 21},
	}
	if len(f.RichHeader) != len(want) {
		t.Fatalf("len(RichHeader) = %d, want %d", len(f.RichHeader), len(want))
	}
	for i, w := range want {
		if f.RichHeader[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, f.RichHeader[i], w)
		}
	}
}

func TestRichHeaderAbsent(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{name: "no signature"},
		{name: "tag without DanS", words: []uint32{0, 0, 0, 0, RichSignature, 0x12345678}},
		{name: "tag too early", words: []uint32{RichSignature, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustLoad(t, buildImage(t, imageSpec{richWords: tt.words}))
			if f.FileInfo.HasRichHdr || f.RichHeader != nil {
				t.Errorf("rich header reported for %s", tt.name)
			}
		})
	}
}
