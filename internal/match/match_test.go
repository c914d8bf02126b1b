package match

import (
	"reflect"
	"testing"
)

func TestFindReferences_YouTubeShorts(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want []Reference
	}{
		{
			"https://www.youtube.com/shorts/dQw4w9WgXcQ",
			[]Reference{{YouTubeShorts, "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"}},
		},
		{
			"глянь youtube.com/shorts/dQw4w9WgXcQ",
			[]Reference{{YouTubeShorts, "https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"}},
		},
		{
			"HTTPS://WWW.YOUTUBE.COM/shorts/dQw4w9WgXcQ?feature=share",
			[]Reference{{YouTubeShorts, "HTTPS://WWW.YOUTUBE.COM/shorts/dQw4w9WgXcQ?feature=share", "dQw4w9WgXcQ"}},
		},
		// обычное видео — не Shorts
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", nil},
		{"https://youtu.be/dQw4w9WgXcQ", nil},
		// не 11 символов — не идентификатор ролика
		{"https://www.youtube.com/shorts/dQw4w9WgXcQQ", nil},
		{"https://www.youtube.com/shorts/short", nil},
	}
	for i, tc := range cases {
		got := FindReferences(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: FindReferences(%q) = %v; want %v", i, tc.in, got, tc.want)
		}
	}
}

func TestFindReferences_TikTok(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want []Reference
	}{
		{
			"check this https://www.tiktok.com/@user/video/1234567890123456789 out",
			[]Reference{{TikTok, "https://www.tiktok.com/@user/video/1234567890123456789", "1234567890123456789"}},
		},
		{
			"vm.tiktok.com/ZM6abc123/",
			[]Reference{{TikTok, "https://vm.tiktok.com/ZM6abc123/", "ZM6abc123"}},
		},
		{
			"https://vt.tiktok.com/ZS8xyz/",
			[]Reference{{TikTok, "https://vt.tiktok.com/ZS8xyz/", "ZS8xyz"}},
		},
		{
			"https://www.tiktok.com/t/ZTRabcdef/",
			[]Reference{{TikTok, "https://www.tiktok.com/t/ZTRabcdef/", "ZTRabcdef"}},
		},
		// ссылка вклеена в текст без пробела
		{
			"смотри:https://www.tiktok.com/@u/video/42",
			[]Reference{{TikTok, "https://www.tiktok.com/@u/video/42", "42"}},
		},
		// профиль — не видео
		{"https://www.tiktok.com/@user", nil},
	}
	for i, tc := range cases {
		got := FindReferences(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: FindReferences(%q) = %v; want %v", i, tc.in, got, tc.want)
		}
	}
}

func TestFindReferences_InstagramReels(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want []Reference
	}{
		{
			"https://www.instagram.com/reel/Cxyz123_ab/?utm_source=ig_web",
			[]Reference{{InstagramReels, "https://www.instagram.com/reel/Cxyz123_ab/?utm_source=ig_web", "Cxyz123_ab"}},
		},
		{
			"instagram.com/reels/Cxyz123-ab",
			[]Reference{{InstagramReels, "https://instagram.com/reels/Cxyz123-ab", "Cxyz123-ab"}},
		},
		// посты и сторис — не Reels
		{"https://www.instagram.com/p/Cxyz123_ab/", nil},
		{"https://www.instagram.com/stories/user/123456/", nil},
	}
	for i, tc := range cases {
		got := FindReferences(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: FindReferences(%q) = %v; want %v", i, tc.in, got, tc.want)
		}
	}
}

func TestFindReferences_Mixed(t *testing.T) {
	t.Parallel()

	// порядок ссылок в результате соответствует порядку в тексте,
	// нераспознанные ссылки пропускаются
	text := "смотри https://www.youtube.com/shorts/dQw4w9WgXcQ и https://example.com/video " +
		"и ещё https://www.tiktok.com/@u.ser/video/42?lang=en"
	got := FindReferences(text)
	want := []Reference{
		{YouTubeShorts, "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{TikTok, "https://www.tiktok.com/@u.ser/video/42?lang=en", "42"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindReferences(%q) = %v; want %v", text, got, want)
	}
}

func TestFindReferences_NoLinks(t *testing.T) {
	t.Parallel()
	for i, in := range []string{"", "привет", "http://example.com и www.example.org", "shorts без ссылки"} {
		if got := FindReferences(in); got != nil {
			t.Fatalf("case %d: FindReferences(%q) = %v; want nil", i, in, got)
		}
	}
}

func TestFindReferences_Deterministic(t *testing.T) {
	t.Parallel()
	text := "https://www.youtube.com/shorts/dQw4w9WgXcQ https://vm.tiktok.com/ZMabc/"
	first := FindReferences(text)
	for i := 0; i < 10; i++ {
		if got := FindReferences(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestFindReferences_TrailingPunctuation(t *testing.T) {
	t.Parallel()
	got := FindReferences("(https://www.instagram.com/reel/Cab12345xyz/),")
	want := []Reference{{InstagramReels, "https://www.instagram.com/reel/Cab12345xyz/", "Cab12345xyz"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
}
