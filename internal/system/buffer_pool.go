package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует буферы *image.RGBA одного размера, чтобы
// повторные превью не нагружали GC. Содержимое выданного буфера не
// очищается: вызывающий код сам заливает фон.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool

	allocs atomic.Int64
	gets   atomic.Int64
}

// NewImagePool создает пустой пул.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage берет буфер из общего пула.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает буфер в общий пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// Get возвращает буфер размера rect с началом координат в rect.Min.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.gets.Add(1)
	pool := p.poolFor(rect.Size())

	img := pool.Get().(*image.RGBA)
	img.Rect = rect
	return img
}

// Put возвращает буфер в пул. Буферы неизвестного размера отбрасываются.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect.Size()]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Allocs возвращает число созданных буферов и число запросов.
func (p *ImagePool) Allocs() (allocs, gets int64) {
	return p.allocs.Load(), p.gets.Load()
}

func (p *ImagePool) poolFor(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Повторная проверка под записью
	if pool, exists = p.pools[size]; exists {
		return pool
	}
	pool = &sync.Pool{
		New: func() interface{} {
			p.allocs.Add(1)
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}
