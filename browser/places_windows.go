//go:build windows

package browser

import (
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
)

func driveMask() uint32 {
	dll, err := syscall.LoadLibrary("kernel32.dll")
	if err != nil {
		logrus.WithError(err).Error("loading kernel32.dll")
		return 0
	}
	handle, err := syscall.GetProcAddress(dll, "GetLogicalDrives")
	if err != nil {
		logrus.WithError(err).Error("could not find GetLogicalDrives")
		return 0
	}

	ret, _, err := syscall.SyscallN(uintptr(handle))
	if err != syscall.Errno(0) {
		logrus.WithError(err).Error("calling GetLogicalDrives")
		return 0
	}
	return uint32(ret)
}

func rootPlaces() []Place {
	var places []Place
	mask := driveMask()
	for i := 0; i < 26; i++ {
		if mask&1 == 1 {
			drive := string('A'+rune(i)) + ":"
			places = append(places, Place{Name: drive, Path: drive + string(os.PathSeparator)})
		}
		mask >>= 1
	}
	return places
}
