package navigate

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "https url verbatim",
			in:   "https://example.com/path?q=1",
			want: "https://example.com/path?q=1",
		},
		{
			name: "http url verbatim",
			in:   "http://example.com",
			want: "http://example.com",
		},
		{
			name: "other scheme verbatim",
			in:   "ftp://files.example.com",
			want: "ftp://files.example.com",
		},
		{
			name: "bare domain",
			in:   "example.com",
			want: "https://example.com",
		},
		{
			name: "bare domain with path",
			in:   "example.com/about",
			want: "https://example.com/about",
		},
		{
			name: "subdomain",
			in:   "news.ycombinator.com",
			want: "https://news.ycombinator.com",
		},
		{
			name: "single word search",
			in:   "cats",
			want: "https://www.google.com/search?q=cats",
		},
		{
			name: "multi word search",
			in:   "what is go",
			want: "https://www.google.com/search?q=what+is+go",
		},
		{
			name: "dotted text with spaces is a search",
			in:   "pi is 3.14",
			want: "https://www.google.com/search?q=pi+is+3.14",
		},
		{
			name: "special characters escaped",
			in:   "a&b=c",
			want: "https://www.google.com/search?q=a%26b%3Dc",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  example.com  ",
			want: "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in, "")
			if got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveCustomSearchURL(t *testing.T) {
	got := Resolve("hello world", "https://duckduckgo.com/?q=%s")
	want := "https://duckduckgo.com/?q=hello+world"
	if got != want {
		t.Fatalf("Resolve() = %q, want %q", got, want)
	}
}
