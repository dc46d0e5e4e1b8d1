//go:build darwin

package usbwatch

import (
	"context"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CF and IOKit type aliases matching usbhid conventions.
type (
	cfAllocatorRef  uintptr
	cfDictionaryRef uintptr
	cfIndex         int64
	cfNumberRef     uintptr
	cfNumberType    = cfIndex
	cfRunLoopRef    uintptr
	cfStringRef     uintptr
	cfTypeRef       uintptr

	cfStringEncoding uint32

	ioHIDDeviceRef  uintptr
	ioHIDManagerRef uintptr
	ioOptionBits    uint32
	ioReturn        int32
)

const (
	kCFAllocatorDefault   cfAllocatorRef  = 0
	kCFNumberSInt16Type   cfIndex         = 2
	kCFStringEncodingUTF8 cfStringEncoding = 0x08000100

	kIOHIDOptionsTypeNone ioOptionBits = 0
	kIOReturnSuccess      ioReturn     = 0
)

// purego function bindings
var (
	cfNumberGetValue        func(number cfNumberRef, theType cfNumberType, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfRunLoopStop           func(runLoop cfRunLoopRef)
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, isExternalRepresentation bool) cfStringRef

	ioHIDDeviceGetProperty                 func(device ioHIDDeviceRef, key cfStringRef) cfTypeRef
	ioHIDManagerClose                      func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerCreate                     func(allocator cfAllocatorRef, options ioOptionBits) ioHIDManagerRef
	ioHIDManagerOpen                       func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerSetDeviceMatching          func(manager ioHIDManagerRef, matching cfDictionaryRef)
	ioHIDManagerRegisterDeviceMatchingCallback func(manager ioHIDManagerRef, callback uintptr, context unsafe.Pointer)
	ioHIDManagerScheduleWithRunLoop        func(manager ioHIDManagerRef, runLoop cfRunLoopRef, runLoopMode cfStringRef)
)

var kCFRunLoopDefaultMode uintptr

func init() {
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&cfStringCreateWithBytes, cf, "CFStringCreateWithBytes")

	kCFRunLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		panic(err)
	}

	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}

	purego.RegisterLibFunc(&ioHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&ioHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&ioHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&ioHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&ioHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&ioHIDManagerRegisterDeviceMatchingCallback, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&ioHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
}

// Watchers share one IOHIDManager and run loop. The loop starts with the
// first Watch and stops when the last watcher's context is done.
var (
	watchMu  sync.Mutex
	watchers = make(map[*filter]struct{})
	stopLoop func()
)

func deviceMatchingCallback(_ unsafe.Pointer, _ ioReturn, _ uintptr, device ioHIDDeviceRef) {
	vid, ok := getDeviceProperty(device, "VendorID")
	if !ok {
		return
	}
	pid, _ := getDeviceProperty(device, "ProductID")
	a := Arrival{VendorID: vid, ProductID: pid}

	watchMu.Lock()
	defer watchMu.Unlock()
	for f := range watchers {
		if f.offer(a) {
			log.Printf("USB device arrived (%s)", a)
		}
	}
}

var deviceMatchingCallbackPtr = purego.NewCallback(deviceMatchingCallback)

func getDeviceProperty(device ioHIDDeviceRef, name string) (uint16, bool) {
	key := []byte(name)
	skey := cfStringCreateWithBytes(kCFAllocatorDefault, key, cfIndex(len(key)), kCFStringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer cfRelease(cfTypeRef(skey))

	prop := ioHIDDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}

	var v uint16
	if !cfNumberGetValue(cfNumberRef(prop), kCFNumberSInt16Type, unsafe.Pointer(&v)) {
		return 0, false
	}
	return v, true
}

// Watch returns a channel that receives each USB HID device from vendorID
// (and productID, if non-zero) that appears on the bus. Uses IOKit's device
// matching callback for zero-CPU-cost waiting. The channel is closed when
// ctx is cancelled.
func Watch(ctx context.Context, vendorID, productID uint16) <-chan Arrival {
	f := &filter{ch: make(chan Arrival, 1), vendorID: vendorID, productID: productID}

	watchMu.Lock()
	watchers[f] = struct{}{}
	if stopLoop == nil {
		stopLoop = startRunLoop()
	}
	watchMu.Unlock()

	go func() {
		<-ctx.Done()
		watchMu.Lock()
		defer watchMu.Unlock()
		delete(watchers, f)
		close(f.ch)
		if len(watchers) == 0 && stopLoop != nil {
			stopLoop()
			stopLoop = nil
		}
	}()

	return f.ch
}

// startRunLoop runs an IOHIDManager on a locked OS thread and returns a
// function that stops it.
func startRunLoop() func() {
	started := make(chan cfRunLoopRef, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := ioHIDManagerCreate(kCFAllocatorDefault, kIOHIDOptionsTypeNone)
		if rv := ioHIDManagerOpen(mgr, kIOHIDOptionsTypeNone); rv != kIOReturnSuccess {
			log.Printf("usbwatch: failed to open IOHIDManager: 0x%08x", rv)
			cfRelease(cfTypeRef(mgr))
			started <- 0
			return
		}

		// Match all HID devices; watchers filter by vendor and product.
		ioHIDManagerSetDeviceMatching(mgr, 0)

		rl := cfRunLoopGetCurrent()
		ioHIDManagerScheduleWithRunLoop(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&kCFRunLoopDefaultMode)))
		ioHIDManagerRegisterDeviceMatchingCallback(mgr, deviceMatchingCallbackPtr, nil)
		started <- rl

		log.Println("usbwatch: listening for USB HID device arrivals")
		cfRunLoopRun()

		ioHIDManagerClose(mgr, kIOHIDOptionsTypeNone)
		cfRelease(cfTypeRef(mgr))
		log.Println("usbwatch: stopped")
	}()

	rl := <-started
	return func() {
		if rl != 0 {
			cfRunLoopStop(rl)
		}
	}
}
