package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats снимок ресурсов процесса и машины.
type Stats struct {
	CPUs        int
	CPUPercent  float64
	RSS         uint64
	TotalMemory uint64
	UsedPercent float64
	Goroutines  int

	// Буферы общего пула изображений
	PoolAllocs int64
	PoolGets   int64
}

// CollectStats собирает статистику текущего процесса. Поля, которые
// платформа не отдает, остаются нулевыми.
func CollectStats() (Stats, error) {
	s := Stats{Goroutines: runtime.NumGoroutine()}
	s.PoolAllocs, s.PoolGets = globalPool.Allocs()

	if n, err := cpu.Counts(true); err == nil {
		s.CPUs = n
	} else {
		s.CPUs = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.UsedPercent = vm.UsedPercent
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("не удалось открыть процесс: %w", err)
	}
	if info, err := proc.MemoryInfo(); err == nil {
		s.RSS = info.RSS
	}
	if pct, err := proc.CPUPercent(); err == nil {
		s.CPUPercent = pct
	}

	return s, nil
}

// Report форматирует статистику одной строкой для вывода в консоль.
func (s Stats) Report() string {
	return fmt.Sprintf("[*] Ресурсы: CPU %d ядер (процесс %.1f%%), RSS %s, память системы %s (занято %.1f%%), горутин %d, буферов %d/%d",
		s.CPUs, s.CPUPercent, formatBytes(s.RSS), formatBytes(s.TotalMemory), s.UsedPercent, s.Goroutines, s.PoolAllocs, s.PoolGets)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
