//go:build vaapi && linux

// SPDX-License-Identifier: MIT

package gbm

/*
#cgo pkg-config: gbm

#include <stdlib.h>
#include <string.h>
#include <gbm.h>

static struct gbm_bo *
hdrtone_import_fd(struct gbm_device *dev, uint32_t width, uint32_t height,
		  uint32_t format, uint32_t stride, int fd)
{
	struct gbm_import_fd_data data;

	memset(&data, 0, sizeof(data));
	data.width = width;
	data.height = height;
	data.format = format;
	data.stride = stride;
	data.fd = fd;

	return gbm_bo_import(dev, GBM_BO_IMPORT_FD, &data, GBM_BO_USE_SCANOUT);
}

static struct gbm_bo *
hdrtone_import_fd_modifier(struct gbm_device *dev, uint32_t width,
			   uint32_t height, uint32_t format,
			   uint32_t num_fds, const int *fds,
			   const int *strides, const int *offsets,
			   uint64_t modifier)
{
	struct gbm_import_fd_modifier_data data;

	memset(&data, 0, sizeof(data));
	data.width = width;
	data.height = height;
	data.format = format;
	data.num_fds = num_fds;
	for (uint32_t i = 0; i < num_fds && i < 4; i++) {
		data.fds[i] = fds[i];
		data.strides[i] = strides[i];
		data.offsets[i] = offsets[i];
	}
	data.modifier = modifier;

	return gbm_bo_import(dev, GBM_BO_IMPORT_FD_MODIFIER, &data,
			     GBM_BO_USE_SCANOUT);
}

static struct gbm_bo *
hdrtone_import_native(struct gbm_device *dev, void *handle)
{
	return gbm_bo_import(dev, GBM_BO_IMPORT_WL_BUFFER, handle,
			     GBM_BO_USE_SCANOUT);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

type device struct {
	dev *C.struct_gbm_device
}

// OpenDevice creates an allocator on an already-open GPU render-node
// descriptor. The descriptor stays owned by the caller and must outlive
// the device.
func OpenDevice(gpuFD int) (Device, error) {
	dev := C.gbm_create_device(C.int(gpuFD))
	if dev == nil {
		return nil, fmt.Errorf("create allocator on fd %d: %w", gpuFD, ErrUnavailable)
	}
	return &device{dev: dev}, nil
}

// Close destroys the underlying allocator device.
func (d *device) Close() {
	if d.dev != nil {
		C.gbm_device_destroy(d.dev)
		d.dev = nil
	}
}

func (d *device) ImportDmabuf(data ImportData) (BufferObject, error) {
	bo := C.hdrtone_import_fd(d.dev, C.uint32_t(data.Width),
		C.uint32_t(data.Height), C.uint32_t(data.Format),
		C.uint32_t(data.Stride), C.int(data.FD))
	if bo == nil {
		return nil, fmt.Errorf("import dma-buf fd %d", data.FD)
	}
	return &bufferObject{bo: bo}, nil
}

func (d *device) ImportDmabufModifier(data ImportModifierData) (BufferObject, error) {
	n := len(data.FDs)
	if n == 0 || n > 4 || len(data.Strides) != n || len(data.Offsets) != n {
		return nil, fmt.Errorf("import dma-buf: inconsistent plane arrays")
	}

	var fds, strides, offsets [4]C.int
	for i := 0; i < n; i++ {
		fds[i] = C.int(data.FDs[i])
		strides[i] = C.int(data.Strides[i])
		offsets[i] = C.int(data.Offsets[i])
	}

	bo := C.hdrtone_import_fd_modifier(d.dev, C.uint32_t(data.Width),
		C.uint32_t(data.Height), C.uint32_t(data.Format),
		C.uint32_t(n), &fds[0], &strides[0], &offsets[0],
		C.uint64_t(data.Modifier))
	if bo == nil {
		return nil, fmt.Errorf("import dma-buf with modifier %#x", uint64(data.Modifier))
	}
	return &bufferObject{bo: bo}, nil
}

func (d *device) ImportNative(handle uintptr) (BufferObject, error) {
	bo := C.hdrtone_import_native(d.dev, unsafe.Pointer(handle))
	if bo == nil {
		return nil, fmt.Errorf("import native buffer handle")
	}
	return &bufferObject{bo: bo}, nil
}

type bufferObject struct {
	bo *C.struct_gbm_bo

	// Descriptors handed out by PlaneFDs, closed on Destroy.
	fds []int
}

func (b *bufferObject) Width() uint32  { return uint32(C.gbm_bo_get_width(b.bo)) }
func (b *bufferObject) Height() uint32 { return uint32(C.gbm_bo_get_height(b.bo)) }

func (b *bufferObject) PlaneCount() int {
	return int(C.gbm_bo_get_plane_count(b.bo))
}

func (b *bufferObject) Stride(plane int) (uint32, error) {
	if plane < 0 || plane >= b.PlaneCount() {
		return 0, ErrPlaneRange
	}
	return uint32(C.gbm_bo_get_stride_for_plane(b.bo, C.int(plane))), nil
}

func (b *bufferObject) Offset(plane int) (uint32, error) {
	if plane < 0 || plane >= b.PlaneCount() {
		return 0, ErrPlaneRange
	}
	return uint32(C.gbm_bo_get_offset(b.bo, C.int(plane))), nil
}

func (b *bufferObject) PlaneFDs() ([]int, error) {
	if b.fds != nil {
		return b.fds, nil
	}

	planes := b.PlaneCount()
	fds := make([]int, 0, planes)
	for i := 0; i < planes; i++ {
		fd := int(C.gbm_bo_get_fd_for_plane(b.bo, C.int(i)))
		if fd < 0 {
			// Allocator cannot split this buffer per plane; fall
			// back to the shared descriptor replicated per plane.
			for _, open := range fds {
				_ = unix.Close(open)
			}
			return b.sharedFDs(planes)
		}
		fds = append(fds, fd)
	}
	b.fds = fds
	return b.fds, nil
}

func (b *bufferObject) sharedFDs(planes int) ([]int, error) {
	fd := int(C.gbm_bo_get_fd(b.bo))
	if fd < 0 {
		return nil, fmt.Errorf("allocator returned no descriptor for buffer")
	}
	fds := make([]int, planes)
	for i := range fds {
		fds[i] = fd
	}
	b.fds = fds
	return b.fds, nil
}

func (b *bufferObject) Destroy() {
	if b.fds != nil {
		closed := make(map[int]bool, len(b.fds))
		for _, fd := range b.fds {
			if !closed[fd] {
				_ = unix.Close(fd)
				closed[fd] = true
			}
		}
		b.fds = nil
	}
	if b.bo != nil {
		C.gbm_bo_destroy(b.bo)
		b.bo = nil
	}
}
