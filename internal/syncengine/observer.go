package syncengine

// Observer receives engine side effects. An index of -1 means none.
type Observer interface {
	OnActiveLineChanged(index int)
	OnActiveWordChanged(line, word int)
	OnScrollTo(index int)
	OnLoopSeek(target float64)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	LineChanged func(index int)
	WordChanged func(line, word int)
	ScrollTo    func(index int)
	LoopSeek    func(target float64)
}

func (o ObserverFuncs) OnActiveLineChanged(index int) {
	if o.LineChanged != nil {
		o.LineChanged(index)
	}
}

func (o ObserverFuncs) OnActiveWordChanged(line, word int) {
	if o.WordChanged != nil {
		o.WordChanged(line, word)
	}
}

func (o ObserverFuncs) OnScrollTo(index int) {
	if o.ScrollTo != nil {
		o.ScrollTo(index)
	}
}

func (o ObserverFuncs) OnLoopSeek(target float64) {
	if o.LoopSeek != nil {
		o.LoopSeek(target)
	}
}

type nopObserver struct{}

func (nopObserver) OnActiveLineChanged(int)      {}
func (nopObserver) OnActiveWordChanged(int, int) {}
func (nopObserver) OnScrollTo(int)               {}
func (nopObserver) OnLoopSeek(float64)           {}
