package export

import (
	"html"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/MaineStateEconomist207/pepv2024/internal/render"
)

// ErrRemoteAsset is returned by InlineLocal when a document still references
// an asset by URL.
var ErrRemoteAsset = eris.New("export: document references remote assets")

var (
	scriptRef = regexp.MustCompile(`<script src="([^"]+)"></script>`)
	styleRef  = regexp.MustCompile(`<link rel="stylesheet" href="([^"]+)">`)
)

// InlineLocal replaces script and stylesheet references to files under dir
// with their contents. Remote references are left in place and reported
// with ErrRemoteAsset.
func InlineLocal(doc []byte, dir string) ([]byte, error) {
	var remote []string
	var readErr error

	inline := func(re *regexp.Regexp, openTag, closeTag string) func([]byte) []byte {
		return func(tag []byte) []byte {
			ref := html.UnescapeString(string(re.FindSubmatch(tag)[1]))
			if u, err := url.Parse(ref); err != nil || u.Scheme != "" || u.Host != "" {
				remote = append(remote, ref)
				return tag
			}
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ref)))
			if err != nil {
				if readErr == nil {
					readErr = eris.Wrapf(err, "export: read local asset %s", ref)
				}
				return tag
			}
			return []byte(openTag + render.GuardClose(content) + closeTag)
		}
	}

	out := scriptRef.ReplaceAllFunc(doc, inline(scriptRef, "<script>", "</script>"))
	out = styleRef.ReplaceAllFunc(out, inline(styleRef, "<style>", "</style>"))

	if readErr != nil {
		return nil, readErr
	}
	if len(remote) > 0 {
		return nil, eris.Wrapf(ErrRemoteAsset, "export: %d remote references (%v)", len(remote), remote)
	}
	return out, nil
}
