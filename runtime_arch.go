package ttd

import "runtime"

func archFromRuntime() string {
	return runtime.GOARCH
}
