//go:build rp2040

package logx

var minLevel = InfoLevel

// Configure sets the minimum level. File options are ignored on MCU.
func Configure(o Options) { minLevel = o.Level }

func Debug(scope, msg string, kv ...any) { emit(DebugLevel, "D", scope, msg, kv) }
func Info(scope, msg string, kv ...any)  { emit(InfoLevel, "I", scope, msg, kv) }
func Warn(scope, msg string, kv ...any)  { emit(WarnLevel, "W", scope, msg, kv) }

func Error(scope, msg string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	emit(ErrorLevel, "E", scope, msg, kv)
}

func emit(l Level, tag, scope, msg string, kv []any) {
	if l < minLevel {
		return
	}
	print(tag, " [", scope, "] ", msg)
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		print(" ", k, "=")
		switch v := kv[i+1].(type) {
		case string:
			print(v)
		case int:
			print(v)
		case bool:
			print(v)
		case uint8:
			print(v)
		default:
			print("?")
		}
	}
	println()
}
