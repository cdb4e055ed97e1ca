//go:build cuda

package cuda

import (
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/neurlang/bnn/bipolar"
	"github.com/pkg/errors"
	"gorgonia.org/cu"
)

// ErrDevice wraps every failure reported by the CUDA driver.
var ErrDevice = errors.New("cuda device error")

// BlockSize is the number of threads per block.
const BlockSize = 256

// Device runs the binmatvec kernel on one CUDA device. Calls to Compute
// are serialized.
type Device struct {
	mu     sync.Mutex
	ctx    cu.CUContext
	fn     cu.Function
	stream cu.Stream
	l      *log.Logger
}

// New creates a context on device ordinal n and loads the kernel.
func New(n int, l *log.Logger) (*Device, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	device, err := cu.GetDevice(n)
	if err != nil {
		return nil, errors.Wrapf(ErrDevice, "get device %d: %v", n, err)
	}
	ctx, err := device.MakeContext(cu.SchedAuto)
	if err != nil {
		return nil, errors.Wrapf(ErrDevice, "create context: %v", err)
	}
	d := &Device{ctx: ctx, l: l}
	mod, err := cu.LoadData(ptxBinmatvec)
	if err != nil {
		ctx.Destroy()
		return nil, errors.Wrapf(ErrDevice, "load module: %v", err)
	}
	d.fn, err = mod.Function("binmatvec")
	if err != nil {
		ctx.Destroy()
		return nil, errors.Wrapf(ErrDevice, "get function: %v", err)
	}
	d.stream, err = cu.MakeStream(cu.DefaultStream)
	if err != nil {
		ctx.Destroy()
		return nil, errors.Wrapf(ErrDevice, "make stream: %v", err)
	}
	if l != nil {
		name, _ := device.Name()
		l.Printf("cuda: using device %d %q", n, name)
	}
	return d, nil
}

// Close destroys the context.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctx.Destroy()
}

func unpack(v bipolar.Vector, dst []byte) {
	for i := range dst {
		if v.Get(i) {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
}

func alloc(size int64) (cu.DevicePtr, error) {
	if size == 0 {
		size = 1
	}
	return cu.MemAlloc(size)
}

// Compute implements binarynet.Offloader.
func (d *Device) Compute(in bipolar.Vector, thresholds []uint32, weights *bipolar.Matrix, out bipolar.Vector) error {
	nin, nout := weights.In(), weights.Out()
	if in.Len() != nin || len(thresholds) != nout || out.Len() != nout {
		return errors.Wrapf(ErrDevice, "shape: input %d thresholds %d output %d for %dx%d weights",
			in.Len(), len(thresholds), out.Len(), nin, nout)
	}
	if nout == 0 {
		return nil
	}

	hostIn := make([]byte, nin+1)
	unpack(in, hostIn[:nin])
	hostW := make([]byte, nin*nout+1)
	for i := 0; i < nout; i++ {
		unpack(weights.Row(i), hostW[i*nin:(i+1)*nin])
	}
	hostOut := make([]byte, nout)

	d.mu.Lock()
	defer d.mu.Unlock()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cu.SetCurrentContext(d.ctx); err != nil {
		return errors.Wrapf(ErrDevice, "set context: %v", err)
	}

	var ptrs []cu.DevicePtr
	defer func() {
		for _, p := range ptrs {
			cu.MemFree(p)
		}
	}()
	upload := func(src unsafe.Pointer, size int64) (cu.DevicePtr, error) {
		p, err := alloc(size)
		if err != nil {
			return 0, errors.Wrapf(ErrDevice, "alloc %d bytes: %v", size, err)
		}
		ptrs = append(ptrs, p)
		if src != nil && size > 0 {
			if err := cu.MemcpyHtoD(p, src, size); err != nil {
				return 0, errors.Wrapf(ErrDevice, "copy to device: %v", err)
			}
		}
		return p, nil
	}

	dIn, err := upload(unsafe.Pointer(&hostIn[0]), int64(nin))
	if err != nil {
		return err
	}
	dW, err := upload(unsafe.Pointer(&hostW[0]), int64(nin*nout))
	if err != nil {
		return err
	}
	dThr, err := upload(unsafe.Pointer(&thresholds[0]), int64(nout)*int64(unsafe.Sizeof(uint32(0))))
	if err != nil {
		return err
	}
	dOut, err := upload(nil, int64(nout))
	if err != nil {
		return err
	}

	nIn32, nOut32 := uint32(nin), uint32(nout)
	args := []unsafe.Pointer{
		unsafe.Pointer(&dIn),
		unsafe.Pointer(&dW),
		unsafe.Pointer(&dThr),
		unsafe.Pointer(&dOut),
		unsafe.Pointer(&nIn32),
		unsafe.Pointer(&nOut32),
	}
	blocks := (nout + BlockSize - 1) / BlockSize
	if err := d.fn.LaunchAndSync(blocks, 1, 1, BlockSize, 1, 1, 0, d.stream, args); err != nil {
		return errors.Wrapf(ErrDevice, "launch: %v", err)
	}
	if err := cu.MemcpyDtoH(unsafe.Pointer(&hostOut[0]), dOut, int64(nout)); err != nil {
		return errors.Wrapf(ErrDevice, "copy from device: %v", err)
	}
	for i, b := range hostOut {
		out.Set(i, b != 0)
	}
	return nil
}
