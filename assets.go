package graffiti

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

// Asset names used in progress reports and logs.
const (
	AssetWall    = "wall"
	AssetArtwork = "artwork"
	AssetOutline = "outline"
	AssetCan     = "can"
)

var (
	wallFallbackColor = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	canFallbackColor  = color.NRGBA{R: 0xff, A: 0xff}
)

// Assets holds the imagery of a painting session.
type Assets struct {
	Wall    image.Image
	Artwork image.Image
	Outline image.Image
	Can     image.Image

	// Fallbacks lists the assets replaced with a placeholder.
	Fallbacks []string
}

// fallbackAsset returns the placeholder used when an asset cannot be loaded.
func fallbackAsset(name string) image.Image {
	switch name {
	case AssetWall:
		return imaging.New(64, 64, wallFallbackColor)
	case AssetCan:
		return imaging.New(40, 100, canFallbackColor)
	}
	return imaging.New(1, 1, color.Transparent)
}

// LoadAssets loads the session imagery concurrently. Assets which fail to load
// are replaced with a placeholder. An error is returned only when ctx is done.
// The progress callback, if any, receives the completed fraction after each asset.
func LoadAssets(ctx context.Context, loader Loader, cfg Config, progress func(float64)) (*Assets, error) {
	sources := []struct {
		name string
		path string
	}{
		{AssetWall, cfg.WallTexture},
		{AssetArtwork, cfg.ArtworkTexture},
		{AssetOutline, cfg.OutlineTexture},
		{AssetCan, cfg.CanTexture},
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		done   int
		images = make([]image.Image, len(sources))
		failed = make([]bool, len(sources))
	)

	wg.Add(len(sources))
	for i, src := range sources {
		go func(i int, name, path string) {
			defer wg.Done()

			img, err := loader.Load(ctx, path)
			if err != nil {
				Logger().Warn("asset load failed, using fallback", "asset", name, "path", path, "error", err)
				img = fallbackAsset(name)
				failed[i] = true
			}
			images[i] = img

			mu.Lock()
			done++
			if progress != nil {
				progress(float64(done) / float64(len(sources)))
			}
			mu.Unlock()
		}(i, src.name, src.path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assets := &Assets{
		Wall:    images[0],
		Artwork: images[1],
		Outline: images[2],
		Can:     images[3],
	}
	for i, f := range failed {
		if f {
			assets.Fallbacks = append(assets.Fallbacks, sources[i].name)
		}
	}
	if failed[2] && !failed[1] {
		Logger().Info("tracing the outline from the artwork")
		assets.Outline = TraceOutline(assets.Artwork)
	}
	return assets, nil
}
