package kite

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/beevik/etree"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNotSVG is returned when a fetched resource does not parse to an <svg>
// document.
var ErrNotSVG = errors.New("kite: resource is not an svg document")

// TextureStatus is the lifecycle stage of a Texture.
type TextureStatus uint8

const (
	TextureUnloaded    TextureStatus = iota // never loaded
	TextureLoading                          // fetching and parsing
	TextureLoaded                           // document parsed, no bitmap yet
	TextureRasterizing                      // a pass is in flight
	TextureRasterized                       // bitmap reflects a completed pass
)

var textureStatusNames = [...]string{"unloaded", "loading", "loaded", "rasterizing", "rasterized"}

func (s TextureStatus) String() string {
	if int(s) < len(textureStatusNames) {
		return textureStatusNames[s]
	}
	return fmt.Sprintf("TextureStatus(%d)", s)
}

// rasterGuard is the coalescing guard: at most one pass in flight and at
// most one rerun queued behind it.
type rasterGuard uint8

const (
	guardIdle        rasterGuard = iota
	guardBusy                    // a pass is running
	guardBusyPending             // a pass is running and one more is owed
)

// Texture is a vector document that is rasterized on demand. Any number of
// Rasterize calls made while a pass is in flight collapse into a single
// follow-up pass, so the final bitmap reflects the latest document edit
// without unbounded concurrent decode work.
type Texture struct {
	path    string
	fetcher Fetcher
	decoder Decoder
	metrics *Metrics

	mu      sync.Mutex
	doc     *etree.Document
	bitmap  *image.RGBA
	version uint64
	status  TextureStatus
	guard   rasterGuard
	// requested is set by Request until a load fails without a document.
	requested bool

	// img caches the ebiten upload of bitmap; only touched from Image.
	img        *ebiten.Image
	imgVersion uint64
}

func newTexture(path string, fetcher Fetcher, decoder Decoder, metrics *Metrics) *Texture {
	return &Texture{path: path, fetcher: fetcher, decoder: decoder, metrics: metrics}
}

// Path returns the identifying path.
func (t *Texture) Path() string {
	return t.path
}

// Status returns the current lifecycle stage.
func (t *Texture) Status() TextureStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Loaded reports whether a document is present.
func (t *Texture) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doc != nil
}

// Load fetches the resource, parses it and performs the initial Rasterize.
// Fetch, parse and decode failures are returned to the caller.
func (t *Texture) Load(ctx context.Context) error {
	t.mu.Lock()
	if t.doc == nil {
		t.status = TextureLoading
	}
	t.mu.Unlock()

	data, err := t.fetcher.Fetch(ctx, t.path)
	if err != nil {
		t.abortLoad()
		return fmt.Errorf("load texture %s: %w", t.path, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.abortLoad()
		return fmt.Errorf("load texture %s: %w", t.path, err)
	}
	if root := doc.Root(); root == nil || root.Tag != "svg" {
		t.abortLoad()
		return fmt.Errorf("load texture %s: %w", t.path, ErrNotSVG)
	}

	t.mu.Lock()
	t.doc = doc
	if t.guard == guardIdle {
		t.status = TextureLoaded
	}
	t.mu.Unlock()
	t.metrics.textureLoaded()
	Logger().Info("texture loaded", "path", t.path, "bytes", len(data))

	return t.Rasterize(ctx)
}

func (t *Texture) abortLoad() {
	t.mu.Lock()
	if t.doc == nil {
		t.status = TextureUnloaded
	}
	t.mu.Unlock()
}

// Rasterize renders the current document to a bitmap. If a pass is already
// in flight it only marks a rerun as owed and returns nil immediately;
// otherwise it runs the pass, plus exactly one more if any request arrived
// meanwhile.
//
// Calling Rasterize before a document is loaded is a programming error and
// panics.
func (t *Texture) Rasterize(ctx context.Context) error {
	t.mu.Lock()
	if t.doc == nil {
		t.mu.Unlock()
		panic(fmt.Sprintf("kite: Rasterize on texture %q before Load", t.path))
	}
	if t.guard != guardIdle {
		t.guard = guardBusyPending
		t.mu.Unlock()
		t.metrics.rasterCoalesced()
		return nil
	}
	t.guard = guardBusy
	t.status = TextureRasterizing

	for {
		data, err := t.doc.WriteToBytes()
		t.mu.Unlock()

		var img *image.RGBA
		if err == nil {
			img, err = t.decoder.Decode(ctx, data)
		}

		t.mu.Lock()
		t.metrics.rasterPass(err != nil)
		if err != nil {
			t.guard = guardIdle
			if t.bitmap != nil {
				t.status = TextureRasterized
			} else {
				t.status = TextureLoaded
			}
			t.mu.Unlock()
			Logger().Warn("texture rasterize failed", "path", t.path, "err", err)
			return fmt.Errorf("rasterize texture %s: %w", t.path, err)
		}
		t.bitmap = img
		t.version++
		Logger().Debug("texture rasterized", "path", t.path, "version", t.version)

		if t.guard == guardBusyPending {
			t.guard = guardBusy
			continue
		}
		t.guard = guardIdle
		t.status = TextureRasterized
		t.mu.Unlock()
		return nil
	}
}

// RasterizeAsync runs Rasterize on its own goroutine. The channel receives
// the result and is then closed.
func (t *Texture) RasterizeAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- t.Rasterize(ctx)
	}()
	return done
}

// Request starts a background Load the first time it is called. It returns
// the load's result channel, or nil if a load was already requested. A load
// that fails before a document is parsed clears the request so a later call
// retries.
func (t *Texture) Request(ctx context.Context) <-chan error {
	t.mu.Lock()
	if t.requested {
		t.mu.Unlock()
		return nil
	}
	t.requested = true
	t.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := t.Load(ctx)
		if err != nil {
			t.mu.Lock()
			if t.doc == nil {
				t.requested = false
			}
			t.mu.Unlock()
		}
		done <- err
	}()
	return done
}

// LoadAsync runs Load on its own goroutine. The channel receives the result
// and is then closed.
func (t *Texture) LoadAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- t.Load(ctx)
	}()
	return done
}

// Edit applies fn to the document under the texture lock, so edits never
// interleave with serialization. Edits take effect at the next Rasterize.
// Edit is a no-op before Load.
func (t *Texture) Edit(fn func(doc *etree.Document)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.doc == nil {
		return
	}
	fn(t.doc)
}

// SetFill sets the fill attribute of every element whose id is id, returning
// how many were changed. Any string is a valid id.
func (t *Texture) SetFill(id, fill string) int {
	n := 0
	t.Edit(func(doc *etree.Document) {
		for _, el := range doc.FindElements("//*[@id]") {
			if el.SelectAttrValue("id", "") != id {
				continue
			}
			el.CreateAttr("fill", fill)
			n++
		}
	})
	return n
}

// Bitmap returns the most recent rasterization, or nil.
func (t *Texture) Bitmap() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bitmap
}

// Version counts completed passes. It changes whenever Bitmap does.
func (t *Texture) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Image returns the bitmap as an ebiten image, uploading it again only when a
// newer pass has completed. Call from the game goroutine.
func (t *Texture) Image() *ebiten.Image {
	t.mu.Lock()
	bitmap, version := t.bitmap, t.version
	t.mu.Unlock()
	if bitmap == nil {
		return nil
	}
	if t.img == nil || t.imgVersion != version {
		if t.img != nil {
			t.img.Deallocate()
		}
		t.img = ebiten.NewImageFromImage(bitmap)
		t.imgVersion = version
	}
	return t.img
}
