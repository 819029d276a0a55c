package render

import (
	"context"
	"sync"
)

// patch is one disjoint unit of work handed to a worker: a rectangle of the
// frame aligned to the 16x4 block grid.
type patch struct {
	x, y, width, height uint32
}

// patches partitions a width x height viewport into patches whose width is a
// multiple of 16 and whose height is a multiple of 4, tiling left-to-right
// then bottom-to-top. tileSize must itself be 16- and 4-aligned; trailing
// columns/rows may be narrower or shorter where tileSize doesn't divide the
// viewport evenly, but stay aligned to the block grid (spec.md §5 "tile
// boundaries must align to the 16x4 block grid").
func patches(width, height, tileSize uint32) []patch {
	var out []patch
	for y := uint32(0); y < height; y += tileSize {
		h := tileSize
		if y+h > height {
			h = height - y
		}
		for x := uint32(0); x < width; x += tileSize {
			w := tileSize
			if x+w > width {
				w = width - x
			}
			out = append(out, patch{x: x, y: y, width: w, height: h})
		}
	}
	return out
}

// RenderFrame partitions the frame into patches and renders them across a
// pool of workers, accumulating every patch's contribution into buf.
func (k Kernel) RenderFrame(ctx context.Context, buf *AccumulationBuffer, gbuffer []byte, frame uint32, workers int) error {
	return k.schedule(ctx, workers, func(p patch) {
		k.AccumulatePatch(buf, gbuffer, p.x, p.y, p.width, p.height, frame)
	})
}

// RenderFrameU8 is RenderFrame's non-accumulating counterpart: it renders
// straight into an 8-bit RGBA bitmap with no cross-frame HDR buffer, the
// worker-pool-parallel form of RenderPatchU8 that cmd/convector-view's blit
// loop drives every frame (SPEC_FULL.md §14).
func (k Kernel) RenderFrameU8(ctx context.Context, bitmap, gbuffer []byte, frame uint32, workers int) error {
	return k.schedule(ctx, workers, func(p patch) {
		k.RenderPatchU8(bitmap, gbuffer, p.x, p.y, p.width, p.height, frame)
	})
}

// schedule partitions the frame into patches and fans work across a pool of
// workers pulling from a shared channel, the same "pull until empty, then
// release" shape as SnellerInc-sneller/sorting/thread_pool.go's condvar-based
// pool, simplified to a channel since the render schedule for one frame is
// static (a fixed patch list) rather than dynamically enqueued (spec.md §2
// AMBIENT STACK, §5 "Scheduling model").
//
// Cancellation is cooperative at patch boundaries (spec.md §5): a patch
// already handed to a worker always completes; only patches not yet started
// are skipped once ctx is done.
func (k Kernel) schedule(ctx context.Context, workers int, renderOne func(patch)) error {
	if workers < 1 {
		workers = 1
	}

	work := patches(k.Width, k.Height, 64)
	jobs := make(chan patch, len(work))
	for _, p := range work {
		jobs <- p
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for p := range jobs {
				select {
				case <-ctx.Done():
					continue
				default:
				}
				renderOne(p)
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}
