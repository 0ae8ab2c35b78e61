package handlers

import (
	"fmt"

	"git.sr.ht/~rjarry/mthreads/worker/types"
)

type FactoryFunc func(path string) (types.Source, error)

var sourceFactories map[string]FactoryFunc = make(map[string]FactoryFunc)

func RegisterSourceFactory(kind string, factory FactoryFunc) {
	sourceFactories[kind] = factory
}

func GetSourceForKind(kind string, path string) (types.Source, error) {
	factory, ok := sourceFactories[kind]
	if !ok {
		return nil, fmt.Errorf("Unknown backend %s", kind)
	}
	source, err := factory(path)
	if err != nil {
		return nil, err
	}
	return source, nil
}
