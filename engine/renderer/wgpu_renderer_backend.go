package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

// geometryShaderSource draws pre-transformed world-space vertices with a per-vertex color.
const geometryShaderSource = camera.GPUCameraUniformSource + `

@group(0) @binding(0) var<uniform> camera: CameraUniform;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) color: vec4<f32>) -> VertexOut {
    var out: VertexOut;
    out.clip = camera.view_proj * vec4<f32>(position, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return in.color;
}
`

// ErrSurfaceNotConfigured is returned by Render before the first Resize.
var ErrSurfaceNotConfigured = errors.New("surface not configured")

type wgpuGeometryRenderer struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	width, height        int

	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount
	forceFallbackAdapter bool
	clearColor           common.Color
	log                  zerolog.Logger

	bindGroupLayout  *wgpu.BindGroupLayout
	cameraBuffer     *wgpu.Buffer
	cameraBindGroup  *wgpu.BindGroup
	trianglePipeline *wgpu.RenderPipeline
	linePipeline     *wgpu.RenderPipeline

	triangleBuffer   *wgpu.Buffer
	triangleCapacity uint64
	lineBuffer       *wgpu.Buffer
	lineCapacity     uint64

	cache *geometryCache
}

var _ GeometryRenderer = &wgpuGeometryRenderer{}

// NewWGPUGeometryRenderer creates the WebGPU rasterizer for a window surface and
// configures it for the initial size. It locks the calling goroutine to its OS
// thread; call it from the thread that runs the frame loop.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the target window
//   - width, height: the initial framebuffer size in pixels
//   - options: functional options to configure the renderer
//
// Returns:
//   - GeometryRenderer: the renderer
//   - error: an error if no adapter or device is available or setup fails
func NewWGPUGeometryRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...GeometryRendererOption) (GeometryRenderer, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("nil surface descriptor")
	}
	runtime.LockOSThread()

	r := &wgpuGeometryRenderer{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAA4x,
		clearColor:  common.Color{0.1, 0.1, 0.1, 1},
		log:         zerolog.Nop(),
		cache:       newGeometryCache(),
	}
	for _, option := range options {
		option(r)
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting adapter: %w", err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Classroom Device",
	})
	if err != nil {
		return nil, fmt.Errorf("requesting device: %w", err)
	}
	r.device = d
	r.queue = d.GetQueue()

	if err := r.configureSurface(width, height); err != nil {
		return nil, err
	}
	if err := r.createPipelines(); err != nil {
		return nil, err
	}
	r.log.Info().
		Int("width", width).
		Int("height", height).
		Uint32("msaa", uint32(r.sampleCount)).
		Msg("geometry renderer ready")
	return r, nil
}

func (r *wgpuGeometryRenderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer; keep the old targets.
		return
	}
	if err := r.configureSurface(width, height); err != nil {
		r.log.Error().Err(err).Int("width", width).Int("height", height).Msg("surface reconfigure failed")
	}
}

// configureSurface (re)creates the swapchain, the MSAA color target and the depth buffer.
func (r *wgpuGeometryRenderer) configureSurface(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	capabilities := r.surface.GetCapabilities(r.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no formats")
	}
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(r.sampleCount)
	msaaEnabled := count > 1

	if r.msaaTextureView != nil {
		r.msaaTextureView.Release()
		r.msaaTextureView = nil
	}
	if msaaEnabled {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *r.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("creating msaa texture: %w", err)
		}
		r.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("creating msaa view: %w", err)
		}
	}

	// Depth sample count must match the color attachment.
	depthTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("creating depth texture: %w", err)
	}
	if r.depthTextureView != nil {
		r.depthTextureView.Release()
	}
	r.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating depth view: %w", err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	c := r.clearColor
	r.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       r.msaaTextureView, // nil when MSAA is off; set per frame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	r.width, r.height = width, height
	return nil
}

// createPipelines builds the triangle and line pipelines. Both share one shader
// module and the camera bind group.
func (r *wgpuGeometryRenderer) createPipelines() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Geometry Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: geometryShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("creating shader module: %w", err)
	}

	var uniform camera.GPUCameraUniform
	r.bindGroupLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(uniform.Size()),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating bind group layout: %w", err)
	}

	r.cameraBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  uint64(uniform.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("creating camera buffer: %w", err)
	}

	r.cameraBindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.cameraBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating camera bind group: %w", err)
	}

	layout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Geometry Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("creating pipeline layout: %w", err)
	}

	r.trianglePipeline, err = r.createPipeline("Triangle", module, layout, wgpu.PrimitiveTopologyTriangleList)
	if err != nil {
		return err
	}
	r.linePipeline, err = r.createPipeline("Line", module, layout, wgpu.PrimitiveTopologyLineList)
	return err
}

func (r *wgpuGeometryRenderer) createPipeline(label string, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	p, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: VertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(r.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s pipeline: %w", label, err)
	}
	return p, nil
}

// ensureVertexBuffer grows *buf to hold size bytes, doubling the capacity
// so a growing stroke does not reallocate every frame.
func (r *wgpuGeometryRenderer) ensureVertexBuffer(buf **wgpu.Buffer, current *uint64, label string, size uint64) error {
	if *buf != nil && *current >= size {
		return nil
	}
	capacity := uint64(VertexStride * 64)
	for capacity < size {
		capacity *= 2
	}
	created, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  capacity,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("creating %s vertex buffer: %w", label, err)
	}
	if *buf != nil {
		(*buf).Release()
	}
	*buf = created
	*current = capacity
	return nil
}

func (r *wgpuGeometryRenderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderPassDescriptor == nil || r.trianglePipeline == nil {
		return ErrSurfaceNotConfigured
	}

	triangles, lines := r.cache.Build(s, cam)

	uniform := camera.NewGPUCameraUniform(cam)
	r.queue.WriteBuffer(r.cameraBuffer, 0, uniform.Marshal())

	if len(triangles) > 0 {
		data := MarshalVertices(triangles)
		if err := r.ensureVertexBuffer(&r.triangleBuffer, &r.triangleCapacity, "Triangle", uint64(len(data))); err != nil {
			return err
		}
		r.queue.WriteBuffer(r.triangleBuffer, 0, data)
	}
	if len(lines) > 0 {
		data := MarshalVertices(lines)
		if err := r.ensureVertexBuffer(&r.lineBuffer, &r.lineCapacity, "Line", uint64(len(data))); err != nil {
			return err
		}
		r.queue.WriteBuffer(r.lineBuffer, 0, data)
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquiring surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}
	defer encoder.Release()

	if r.sampleCount > 1 {
		r.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		r.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(r.renderPassDescriptor)
	if len(triangles) > 0 {
		pass.SetPipeline(r.trianglePipeline)
		pass.SetBindGroup(0, r.cameraBindGroup, nil)
		pass.SetVertexBuffer(0, r.triangleBuffer, 0, wgpu.WholeSize)
		pass.Draw(uint32(len(triangles)), 1, 0, 0)
	}
	if len(lines) > 0 {
		pass.SetPipeline(r.linePipeline)
		pass.SetBindGroup(0, r.cameraBindGroup, nil)
		pass.SetVertexBuffer(0, r.lineBuffer, 0, wgpu.WholeSize)
		pass.Draw(uint32(len(lines)), 1, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing command encoder: %w", err)
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}
