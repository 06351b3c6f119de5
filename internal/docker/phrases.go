package docker

import "strings"

// TransientPhrases 判定为临时故障、可以重试的错误文本
var TransientPhrases = []string{
	"connection refused",
	"timeout",
	"temporary failure",
	"try again",
	"resource temporarily unavailable",
	"cannot connect to the docker daemon",
}

// BenignStopPhrases 停止时表示容器已不存在或已停止的错误文本
var BenignStopPhrases = []string{
	"no such container",
	"is not running",
	"already stopped",
}

// IsTransient stderr 是否属于临时故障
func IsTransient(stderr string) bool {
	return containsAny(stderr, TransientPhrases)
}

// IsBenignStop stderr 是否表示目标已处于停止状态
func IsBenignStop(stderr string) bool {
	return containsAny(stderr, BenignStopPhrases)
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
