package mu

func registerNamespaceBuiltins(env *Env) {
	env.defNative("find", 2, func(env *Env, fr *Frame) *Exception {
		sym, ok := env.Find(fr.Argv[0], env.Heap.StringValue(fr.Argv[1]))
		if !ok {
			fr.Value = NilTag
			return nil
		}
		fr.Value = sym
		return nil
	})
	env.defNative("find-namespace", 1, func(env *Env, fr *Frame) *Exception {
		t, ok := env.FindNamespace(env.Heap.StringValue(fr.Argv[0]))
		if !ok {
			fr.Value = NilTag
			return nil
		}
		fr.Value = t
		return nil
	})
	env.defNative("intern", 3, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Intern(fr.Argv[0], env.Heap.StringValue(fr.Argv[1]), fr.Argv[2])
		return nil
	})
	env.defNative("make-namespace", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.MakeNamespace(env.Heap.StringValue(fr.Argv[0]))
		return nil
	})
	env.defNative("namespace-map", 0, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.NamespaceMap()
		return nil
	})
	env.defNative("namespace-name", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.NamespaceName(fr.Argv[0])
		return nil
	})
	env.defNative("namespace-symbols", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.NamespaceSymbols(fr.Argv[0])
		return nil
	})
}
