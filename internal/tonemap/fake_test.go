// SPDX-License-Identifier: MIT

package tonemap

import (
	"errors"
	"fmt"

	"github.com/tkristof/hdrtone/internal/gbm"
	"github.com/tkristof/hdrtone/internal/va"
)

// fakeDisplay records the accelerator call sequence and lets tests fail
// individual calls.
type fakeDisplay struct {
	calls []string

	caps     []va.HDRCap
	capsErr  error
	nextID   uint32
	failCall map[string]error

	liveConfigs  map[va.ConfigID]bool
	liveContexts map[va.ContextID]bool
	liveSurfaces map[va.SurfaceID]bool
	liveBuffers  map[va.BufferID]bool

	createdSurfaces  []va.SurfaceID
	importedSurfaces []va.ExternalBuffer
	begunTargets     []va.SurfaceID
	renderedBuffers  [][]va.BufferID
	pipelines        []va.PipelineParams
	filters          []va.ToneMapFilter
	pipelineIDs      map[va.BufferID]va.PipelineParams
	terminated       bool
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		caps:         []va.HDRCap{{MetadataType: va.HDRMetadataHDR10, Flags: 1}},
		nextID:       1,
		failCall:     map[string]error{},
		liveConfigs:  map[va.ConfigID]bool{},
		liveContexts: map[va.ContextID]bool{},
		liveSurfaces: map[va.SurfaceID]bool{},
		liveBuffers:  map[va.BufferID]bool{},
		pipelineIDs:  map[va.BufferID]va.PipelineParams{},
	}
}

func (d *fakeDisplay) record(call string) error {
	d.calls = append(d.calls, call)
	if err, ok := d.failCall[call]; ok {
		return err
	}
	return nil
}

func (d *fakeDisplay) id() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *fakeDisplay) countCalls(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (d *fakeDisplay) CreateConfig(rt va.RTFormat) (va.ConfigID, error) {
	if err := d.record("CreateConfig"); err != nil {
		return va.InvalidID, err
	}
	cfg := va.ConfigID(d.id())
	d.liveConfigs[cfg] = true
	return cfg, nil
}

func (d *fakeDisplay) DestroyConfig(cfg va.ConfigID) error {
	if err := d.record("DestroyConfig"); err != nil {
		return err
	}
	if !d.liveConfigs[cfg] {
		return fmt.Errorf("destroy of unknown config %d", cfg)
	}
	delete(d.liveConfigs, cfg)
	return nil
}

func (d *fakeDisplay) CreateContext(cfg va.ConfigID) (va.ContextID, error) {
	if err := d.record("CreateContext"); err != nil {
		return va.InvalidID, err
	}
	if !d.liveConfigs[cfg] {
		return va.InvalidID, fmt.Errorf("context on unknown config %d", cfg)
	}
	ctx := va.ContextID(d.id())
	d.liveContexts[ctx] = true
	return ctx, nil
}

func (d *fakeDisplay) DestroyContext(ctx va.ContextID) error {
	if err := d.record("DestroyContext"); err != nil {
		return err
	}
	if !d.liveContexts[ctx] {
		return fmt.Errorf("destroy of unknown context %d", ctx)
	}
	delete(d.liveContexts, ctx)
	return nil
}

func (d *fakeDisplay) CreateSurface(rt va.RTFormat, width, height uint32, pixelFormat va.FourCC) (va.SurfaceID, error) {
	if err := d.record("CreateSurface"); err != nil {
		return va.InvalidID, err
	}
	s := va.SurfaceID(d.id())
	d.liveSurfaces[s] = true
	d.createdSurfaces = append(d.createdSurfaces, s)
	return s, nil
}

func (d *fakeDisplay) ImportSurface(rt va.RTFormat, buf va.ExternalBuffer) (va.SurfaceID, error) {
	if err := d.record("ImportSurface"); err != nil {
		return va.InvalidID, err
	}
	d.importedSurfaces = append(d.importedSurfaces, buf)
	s := va.SurfaceID(d.id())
	d.liveSurfaces[s] = true
	return s, nil
}

func (d *fakeDisplay) DestroySurface(s va.SurfaceID) error {
	if err := d.record("DestroySurface"); err != nil {
		return err
	}
	if !d.liveSurfaces[s] {
		return fmt.Errorf("destroy of unknown surface %d", s)
	}
	delete(d.liveSurfaces, s)
	return nil
}

func (d *fakeDisplay) QueryToneMapCaps(ctx va.ContextID) ([]va.HDRCap, error) {
	if err := d.record("QueryToneMapCaps"); err != nil {
		return nil, err
	}
	if d.capsErr != nil {
		return nil, d.capsErr
	}
	return d.caps, nil
}

func (d *fakeDisplay) CreateFilterBuffer(ctx va.ContextID, filter va.ToneMapFilter) (va.BufferID, error) {
	if err := d.record("CreateFilterBuffer"); err != nil {
		return va.InvalidID, err
	}
	d.filters = append(d.filters, filter)
	b := va.BufferID(d.id())
	d.liveBuffers[b] = true
	return b, nil
}

func (d *fakeDisplay) CreatePipelineBuffer(ctx va.ContextID, params va.PipelineParams) (va.BufferID, error) {
	if err := d.record("CreatePipelineBuffer"); err != nil {
		return va.InvalidID, err
	}
	d.pipelines = append(d.pipelines, params)
	b := va.BufferID(d.id())
	d.liveBuffers[b] = true
	d.pipelineIDs[b] = params
	return b, nil
}

func (d *fakeDisplay) DestroyBuffer(b va.BufferID) error {
	if err := d.record("DestroyBuffer"); err != nil {
		return err
	}
	if !d.liveBuffers[b] {
		return fmt.Errorf("destroy of unknown buffer %d", b)
	}
	delete(d.liveBuffers, b)
	return nil
}

func (d *fakeDisplay) BeginPicture(ctx va.ContextID, target va.SurfaceID) error {
	if err := d.record("BeginPicture"); err != nil {
		return err
	}
	d.begunTargets = append(d.begunTargets, target)
	return nil
}

func (d *fakeDisplay) RenderPicture(ctx va.ContextID, bufs ...va.BufferID) error {
	if err := d.record("RenderPicture"); err != nil {
		return err
	}
	d.renderedBuffers = append(d.renderedBuffers, bufs)
	return nil
}

func (d *fakeDisplay) EndPicture(ctx va.ContextID) error {
	return d.record("EndPicture")
}

func (d *fakeDisplay) Terminate() error {
	d.terminated = true
	return d.record("Terminate")
}

// fakeBuffer is an imported buffer object with a fixed plane layout.
type fakeBuffer struct {
	width, height uint32
	planes        int
	strides       []uint32
	offsets       []uint32
	fds           []int

	destroyed bool
}

func newFakeBuffer(w, h uint32, planes int) *fakeBuffer {
	b := &fakeBuffer{width: w, height: h, planes: planes}
	for i := 0; i < planes; i++ {
		b.strides = append(b.strides, w*2)
		b.offsets = append(b.offsets, uint32(i)*w*h*2)
		b.fds = append(b.fds, 40+i)
	}
	return b
}

func (b *fakeBuffer) Width() uint32   { return b.width }
func (b *fakeBuffer) Height() uint32  { return b.height }
func (b *fakeBuffer) PlaneCount() int { return b.planes }

func (b *fakeBuffer) Stride(plane int) (uint32, error) {
	if plane < 0 || plane >= b.planes {
		return 0, gbm.ErrPlaneRange
	}
	return b.strides[plane], nil
}

func (b *fakeBuffer) Offset(plane int) (uint32, error) {
	if plane < 0 || plane >= b.planes {
		return 0, gbm.ErrPlaneRange
	}
	return b.offsets[plane], nil
}

func (b *fakeBuffer) PlaneFDs() ([]int, error) {
	return b.fds, nil
}

func (b *fakeBuffer) Destroy() { b.destroyed = true }

// fakeAllocator records which import path was taken.
type fakeAllocator struct {
	legacyImports   []gbm.ImportData
	modifierImports []gbm.ImportModifierData
	nativeImports   []uintptr

	buffer  *fakeBuffer
	failErr error
}

var errImportRefused = errors.New("allocator refused import")

func (a *fakeAllocator) ImportDmabuf(data gbm.ImportData) (gbm.BufferObject, error) {
	a.legacyImports = append(a.legacyImports, data)
	if a.failErr != nil {
		return nil, a.failErr
	}
	return a.buffer, nil
}

func (a *fakeAllocator) ImportDmabufModifier(data gbm.ImportModifierData) (gbm.BufferObject, error) {
	a.modifierImports = append(a.modifierImports, data)
	if a.failErr != nil {
		return nil, a.failErr
	}
	return a.buffer, nil
}

func (a *fakeAllocator) ImportNative(handle uintptr) (gbm.BufferObject, error) {
	a.nativeImports = append(a.nativeImports, handle)
	if a.failErr != nil {
		return nil, a.failErr
	}
	return a.buffer, nil
}

func (a *fakeAllocator) importCount() int {
	return len(a.legacyImports) + len(a.modifierImports) + len(a.nativeImports)
}
