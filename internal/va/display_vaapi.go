//go:build vaapi && linux

// SPDX-License-Identifier: MIT

package va

/*
#cgo pkg-config: libva libva-drm

#include <stdlib.h>
#include <string.h>
#include <va/va.h>
#include <va/va_drm.h>
#include <va/va_drmcommon.h>
#include <va/va_vpp.h>

// Parameter-buffer payloads reference side structures by pointer
// (regions, metadata, filter arrays). The driver may dereference them as
// late as vaEndPicture, so they are kept on the C heap for the lifetime
// of the buffer and freed on destroy.

typedef struct {
	VAProcFilterParameterBufferHDRToneMapping param;
	VAHdrMetaDataHDR10 hdr10;
} hdrtone_filter_storage;

typedef struct {
	VAProcPipelineParameterBuffer param;
	VARectangle surface_region;
	VARectangle output_region;
	VABufferID filters[8];
} hdrtone_pipeline_storage;

static VAStatus
hdrtone_create_filter_buffer(VADisplay dpy, VAContextID ctx,
			     const VAHdrMetaDataHDR10 *hdr10,
			     hdrtone_filter_storage **out_storage,
			     VABufferID *out_buf)
{
	hdrtone_filter_storage *s = calloc(1, sizeof(*s));
	if (!s)
		return VA_STATUS_ERROR_ALLOCATION_FAILED;

	s->hdr10 = *hdr10;
	s->param.type = VAProcFilterHighDynamicRangeToneMapping;
	s->param.data.metadata_type = VAProcHighDynamicRangeMetadataHDR10;
	s->param.data.metadata = &s->hdr10;
	s->param.data.metadata_size = sizeof(s->hdr10);

	VAStatus st = vaCreateBuffer(dpy, ctx, VAProcFilterParameterBufferType,
				     sizeof(s->param), 1, &s->param, out_buf);
	if (st != VA_STATUS_SUCCESS) {
		free(s);
		return st;
	}
	*out_storage = s;
	return VA_STATUS_SUCCESS;
}

static VAStatus
hdrtone_create_pipeline_buffer(VADisplay dpy, VAContextID ctx,
			       VASurfaceID surface,
			       short sx, short sy,
			       unsigned short sw, unsigned short sh,
			       unsigned int surface_color_standard,
			       short ox, short oy,
			       unsigned short ow, unsigned short oh,
			       unsigned int output_color_standard,
			       const unsigned int *filters, int num_filters,
			       hdrtone_pipeline_storage **out_storage,
			       VABufferID *out_buf)
{
	if (num_filters > 8)
		return VA_STATUS_ERROR_INVALID_PARAMETER;

	hdrtone_pipeline_storage *s = calloc(1, sizeof(*s));
	if (!s)
		return VA_STATUS_ERROR_ALLOCATION_FAILED;

	s->surface_region.x = sx;
	s->surface_region.y = sy;
	s->surface_region.width = sw;
	s->surface_region.height = sh;
	s->output_region.x = ox;
	s->output_region.y = oy;
	s->output_region.width = ow;
	s->output_region.height = oh;

	s->param.surface = surface;
	s->param.surface_region = &s->surface_region;
	s->param.surface_color_standard = surface_color_standard;
	s->param.output_region = &s->output_region;
	s->param.output_color_standard = output_color_standard;
	s->param.output_hdr_metadata = NULL;
	if (num_filters > 0) {
		for (int i = 0; i < num_filters; i++)
			s->filters[i] = filters[i];
		s->param.filters = s->filters;
		s->param.num_filters = num_filters;
	}

	VAStatus st = vaCreateBuffer(dpy, ctx, VAProcPipelineParameterBufferType,
				     sizeof(s->param), 1, &s->param, out_buf);
	if (st != VA_STATUS_SUCCESS) {
		free(s);
		return st;
	}
	*out_storage = s;
	return VA_STATUS_SUCCESS;
}

static VAStatus
hdrtone_create_surface_external(VADisplay dpy, unsigned int rt_format,
				unsigned int width, unsigned int height,
				unsigned int pixel_format,
				int num_planes,
				const int *fds,
				const unsigned int *pitches,
				const unsigned int *offsets,
				VASurfaceID *out_surface)
{
	VASurfaceAttribExternalBuffers external;
	uintptr_t prime_fds[4];
	VASurfaceAttrib attribs[2];

	if (num_planes < 1 || num_planes > 4)
		return VA_STATUS_ERROR_INVALID_PARAMETER;

	memset(&external, 0, sizeof(external));
	external.pixel_format = pixel_format;
	external.width = width;
	external.height = height;
	external.num_planes = num_planes;
	for (int i = 0; i < num_planes; i++) {
		external.pitches[i] = pitches[i];
		external.offsets[i] = offsets[i];
		prime_fds[i] = (uintptr_t)fds[i];
	}
	external.num_buffers = num_planes;
	external.buffers = prime_fds;

	attribs[0].flags = VA_SURFACE_ATTRIB_SETTABLE;
	attribs[0].type = VASurfaceAttribMemoryType;
	attribs[0].value.type = VAGenericValueTypeInteger;
	attribs[0].value.value.i = VA_SURFACE_ATTRIB_MEM_TYPE_DRM_PRIME;

	attribs[1].flags = VA_SURFACE_ATTRIB_SETTABLE;
	attribs[1].type = VASurfaceAttribExternalBufferDescriptor;
	attribs[1].value.type = VAGenericValueTypePointer;
	attribs[1].value.value.p = &external;

	return vaCreateSurfaces(dpy, rt_format, width, height,
				out_surface, 1, attribs, 2);
}

static VAStatus
hdrtone_create_surface(VADisplay dpy, unsigned int rt_format,
		       unsigned int width, unsigned int height,
		       unsigned int pixel_format,
		       VASurfaceID *out_surface)
{
	VASurfaceAttrib attrib;

	attrib.flags = VA_SURFACE_ATTRIB_SETTABLE;
	attrib.type = VASurfaceAttribPixelFormat;
	attrib.value.type = VAGenericValueTypeInteger;
	attrib.value.value.i = pixel_format;

	return vaCreateSurfaces(dpy, rt_format, width, height,
				out_surface, 1, &attrib, 1);
}

static VAStatus
hdrtone_query_tonemap_caps(VADisplay dpy, VAContextID ctx,
			   VAProcFilterCapHighDynamicRange *caps,
			   unsigned int *num_caps)
{
	return vaQueryVideoProcFilterCaps(dpy, ctx,
					  VAProcFilterHighDynamicRangeToneMapping,
					  (void *)caps, num_caps);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// display is the libva-backed Display. It is single-threaded by
// contract (see Display); the bookkeeping maps are unsynchronized.
type display struct {
	dpy C.VADisplay

	// Heap-backed payloads owned by live parameter buffers.
	filterStorage   map[BufferID]*C.hdrtone_filter_storage
	pipelineStorage map[BufferID]*C.hdrtone_pipeline_storage
}

// OpenDisplay opens a hardware video-processing connection on the given
// GPU render-node descriptor. The descriptor stays owned by the caller.
func OpenDisplay(gpuFD int) (Display, error) {
	dpy := C.vaGetDisplayDRM(C.int(gpuFD))
	if dpy == nil {
		return nil, ErrNoDisplay
	}

	var major, minor C.int
	st := C.vaInitialize(dpy, &major, &minor)
	if st != C.VA_STATUS_SUCCESS {
		return nil, fmt.Errorf("negotiate accelerator session: %w",
			&StatusError{Call: "vaInitialize", Status: Status(st)})
	}

	return &display{
		dpy:             dpy,
		filterStorage:   make(map[BufferID]*C.hdrtone_filter_storage),
		pipelineStorage: make(map[BufferID]*C.hdrtone_pipeline_storage),
	}, nil
}

func statusErr(call string, st C.VAStatus) error {
	if st == C.VA_STATUS_SUCCESS {
		return nil
	}
	return &StatusError{Call: call, Status: Status(st)}
}

func (d *display) CreateConfig(rt RTFormat) (ConfigID, error) {
	attrib := C.VAConfigAttrib{
		_type: C.VAConfigAttribRTFormat,
		value: C.uint32_t(rt),
	}
	var cfg C.VAConfigID
	st := C.vaCreateConfig(d.dpy, C.VAProfileNone, C.VAEntrypointVideoProc,
		&attrib, 1, &cfg)
	if err := statusErr("vaCreateConfig", st); err != nil {
		return InvalidID, err
	}
	return ConfigID(cfg), nil
}

func (d *display) DestroyConfig(cfg ConfigID) error {
	return statusErr("vaDestroyConfig", C.vaDestroyConfig(d.dpy, C.VAConfigID(cfg)))
}

func (d *display) CreateContext(cfg ConfigID) (ContextID, error) {
	// Dimensions are unused by the video-processing entry point; the
	// context is format-scoped.
	var ctx C.VAContextID
	st := C.vaCreateContext(d.dpy, C.VAConfigID(cfg), 1, 1, 0, nil, 0, &ctx)
	if err := statusErr("vaCreateContext", st); err != nil {
		return InvalidID, err
	}
	return ContextID(ctx), nil
}

func (d *display) DestroyContext(ctx ContextID) error {
	return statusErr("vaDestroyContext", C.vaDestroyContext(d.dpy, C.VAContextID(ctx)))
}

func (d *display) CreateSurface(rt RTFormat, width, height uint32, pixelFormat FourCC) (SurfaceID, error) {
	var surface C.VASurfaceID
	st := C.hdrtone_create_surface(d.dpy, C.uint(rt), C.uint(width),
		C.uint(height), C.uint(pixelFormat), &surface)
	if err := statusErr("vaCreateSurfaces", st); err != nil {
		return InvalidID, err
	}
	return SurfaceID(surface), nil
}

func (d *display) ImportSurface(rt RTFormat, buf ExternalBuffer) (SurfaceID, error) {
	n := len(buf.Planes)
	if n == 0 || n > 4 {
		return InvalidID, fmt.Errorf("import surface: %d planes out of range", n)
	}

	var fds [4]C.int
	var pitches, offsets [4]C.uint
	for i, p := range buf.Planes {
		fds[i] = C.int(p.FD)
		pitches[i] = C.uint(p.Pitch)
		offsets[i] = C.uint(p.Offset)
	}

	var surface C.VASurfaceID
	st := C.hdrtone_create_surface_external(d.dpy, C.uint(rt),
		C.uint(buf.Width), C.uint(buf.Height), C.uint(buf.PixelFormat),
		C.int(n), &fds[0], &pitches[0], &offsets[0], &surface)
	if err := statusErr("vaCreateSurfaces", st); err != nil {
		return InvalidID, err
	}
	return SurfaceID(surface), nil
}

func (d *display) DestroySurface(s SurfaceID) error {
	surface := C.VASurfaceID(s)
	return statusErr("vaDestroySurfaces", C.vaDestroySurfaces(d.dpy, &surface, 1))
}

func (d *display) QueryToneMapCaps(ctx ContextID) ([]HDRCap, error) {
	var caps [C.VAProcHighDynamicRangeMetadataTypeCount]C.VAProcFilterCapHighDynamicRange
	num := C.uint(len(caps))
	st := C.hdrtone_query_tonemap_caps(d.dpy, C.VAContextID(ctx), &caps[0], &num)
	if err := statusErr("vaQueryVideoProcFilterCaps", st); err != nil {
		return nil, err
	}

	out := make([]HDRCap, 0, num)
	for i := C.uint(0); i < num; i++ {
		out = append(out, HDRCap{
			MetadataType: HDRMetadataType(caps[i].metadata_type),
			Flags:        uint32(caps[i].caps_flag),
		})
	}
	return out, nil
}

func (d *display) CreateFilterBuffer(ctx ContextID, filter ToneMapFilter) (BufferID, error) {
	var hdr10 C.VAHdrMetaDataHDR10
	m := filter.Metadata
	for i := 0; i < 3; i++ {
		hdr10.display_primaries_x[i] = C.uint16_t(m.DisplayPrimariesX[i])
		hdr10.display_primaries_y[i] = C.uint16_t(m.DisplayPrimariesY[i])
	}
	hdr10.white_point_x = C.uint16_t(m.WhitePointX)
	hdr10.white_point_y = C.uint16_t(m.WhitePointY)
	hdr10.max_display_mastering_luminance = C.uint32_t(m.MaxDisplayMasteringLuminance)
	hdr10.min_display_mastering_luminance = C.uint32_t(m.MinDisplayMasteringLuminance)
	hdr10.max_content_light_level = C.uint16_t(m.MaxContentLightLevel)
	hdr10.max_pic_average_light_level = C.uint16_t(m.MaxPicAverageLightLevel)

	var storage *C.hdrtone_filter_storage
	var buf C.VABufferID
	st := C.hdrtone_create_filter_buffer(d.dpy, C.VAContextID(ctx), &hdr10,
		&storage, &buf)
	if err := statusErr("vaCreateBuffer", st); err != nil {
		return InvalidID, err
	}
	d.filterStorage[BufferID(buf)] = storage
	return BufferID(buf), nil
}

func (d *display) CreatePipelineBuffer(ctx ContextID, params PipelineParams) (BufferID, error) {
	var filters [8]C.uint
	if len(params.Filters) > len(filters) {
		return InvalidID, fmt.Errorf("pipeline buffer: %d filters out of range", len(params.Filters))
	}
	var filterPtr *C.uint
	if len(params.Filters) > 0 {
		for i, f := range params.Filters {
			filters[i] = C.uint(f)
		}
		filterPtr = &filters[0]
	}

	var storage *C.hdrtone_pipeline_storage
	var buf C.VABufferID
	st := C.hdrtone_create_pipeline_buffer(d.dpy, C.VAContextID(ctx),
		C.VASurfaceID(params.Surface),
		C.short(params.SurfaceRegion.X), C.short(params.SurfaceRegion.Y),
		C.ushort(params.SurfaceRegion.Width), C.ushort(params.SurfaceRegion.Height),
		C.uint(params.SurfaceColorStandard),
		C.short(params.OutputRegion.X), C.short(params.OutputRegion.Y),
		C.ushort(params.OutputRegion.Width), C.ushort(params.OutputRegion.Height),
		C.uint(params.OutputColorStandard),
		filterPtr, C.int(len(params.Filters)),
		&storage, &buf)
	if err := statusErr("vaCreateBuffer", st); err != nil {
		return InvalidID, err
	}
	d.pipelineStorage[BufferID(buf)] = storage
	return BufferID(buf), nil
}

func (d *display) DestroyBuffer(buf BufferID) error {
	err := statusErr("vaDestroyBuffer", C.vaDestroyBuffer(d.dpy, C.VABufferID(buf)))
	if s, ok := d.filterStorage[buf]; ok {
		C.free(unsafe.Pointer(s))
		delete(d.filterStorage, buf)
	}
	if s, ok := d.pipelineStorage[buf]; ok {
		C.free(unsafe.Pointer(s))
		delete(d.pipelineStorage, buf)
	}
	return err
}

func (d *display) BeginPicture(ctx ContextID, target SurfaceID) error {
	return statusErr("vaBeginPicture",
		C.vaBeginPicture(d.dpy, C.VAContextID(ctx), C.VASurfaceID(target)))
}

func (d *display) RenderPicture(ctx ContextID, bufs ...BufferID) error {
	if len(bufs) == 0 {
		return nil
	}
	cbufs := make([]C.VABufferID, len(bufs))
	for i, b := range bufs {
		cbufs[i] = C.VABufferID(b)
	}
	return statusErr("vaRenderPicture",
		C.vaRenderPicture(d.dpy, C.VAContextID(ctx), &cbufs[0], C.int(len(cbufs))))
}

func (d *display) EndPicture(ctx ContextID) error {
	return statusErr("vaEndPicture", C.vaEndPicture(d.dpy, C.VAContextID(ctx)))
}

func (d *display) Terminate() error {
	for buf, s := range d.filterStorage {
		C.free(unsafe.Pointer(s))
		delete(d.filterStorage, buf)
	}
	for buf, s := range d.pipelineStorage {
		C.free(unsafe.Pointer(s))
		delete(d.pipelineStorage, buf)
	}
	return statusErr("vaTerminate", C.vaTerminate(d.dpy))
}
