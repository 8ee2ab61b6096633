package mu

func registerIOBuiltins(env *Env) {
	env.defNative("read", 3, func(env *Env, fr *Frame) *Exception {
		v, exc := env.ReadStream(fr.Argv[0], truthy(fr.Argv[1]), fr.Argv[2], false)
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("write", 3, func(env *Env, fr *Frame) *Exception {
		if exc := env.Write(fr.Argv[0], truthy(fr.Argv[1]), fr.Argv[2]); exc != nil {
			return exc
		}
		fr.Value = fr.Argv[0]
		return nil
	})
	env.defNative("open", 4, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		kind := h.StringValue(fr.Argv[0])
		direction := h.StringValue(fr.Argv[2])
		switch kind {
		case "file":
			t, exc := env.OpenFileStream(h.StringValue(fr.Argv[1]), direction)
			if exc != nil {
				return exc
			}
			fr.Value = t
		case "string":
			fr.Value = env.OpenStringStream(direction, h.StringValue(fr.Argv[1]))
		default:
			return Raise(CondType, "mu:open", fr.Argv[0])
		}
		return nil
	})
	env.defNative("openp", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = boolTag(streamOpenP(env, fr.Argv[0]))
		return nil
	})
	env.defNative("close", 1, func(env *Env, fr *Frame) *Exception {
		return env.CloseStream(fr.Argv[0])
	})
	env.defNative("flush", 1, func(env *Env, fr *Frame) *Exception {
		return env.FlushStream(fr.Argv[0])
	})
	env.defNative("read-char", 3, func(env *Env, fr *Frame) *Exception {
		v, exc := env.ReadChar(fr.Argv[0], truthy(fr.Argv[1]), fr.Argv[2])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("unread-char", 2, func(env *Env, fr *Frame) *Exception {
		return env.UnreadChar(fr.Argv[0], fr.Argv[1])
	})
	env.defNative("write-char", 2, func(env *Env, fr *Frame) *Exception {
		return env.WriteChar(fr.Argv[0], fr.Argv[1])
	})
	env.defNative("read-byte", 3, func(env *Env, fr *Frame) *Exception {
		v, exc := env.ReadByte(fr.Argv[0], truthy(fr.Argv[1]), fr.Argv[2])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("write-byte", 2, func(env *Env, fr *Frame) *Exception {
		return env.WriteByte(fr.Argv[0], fr.Argv[1])
	})
	env.defNative("get-string", 1, func(env *Env, fr *Frame) *Exception {
		v, exc := env.GetString(fr.Argv[0])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
}
