package streamkit

// Operator is a pure factory: (src, strategy?) -> outStream. Operators are
// stateless factories — state lives in the stream they construct, not in
// the Operator value itself (spec §4.1/§6.1).
type Operator[T, R any] func(src *Stream[T], strategy ...QueuingStrategy) *Stream[R]

// Readable is implemented by anything exposing a streamkit.Stream as its
// readable side — subjects and transforms in particular — so pipe sources
// can be "ReadableLike" per spec §4.4.
type Readable[T any] interface {
	Readable() *Stream[T]
}

// Unwrap resolves a ReadableLike source to its underlying Stream.
func Unwrap[T any](r Readable[T]) *Stream[T] {
	return r.Readable()
}

// Pipe1 folds a single operator over src.
func Pipe1[T, A any](src *Stream[T], op1 Operator[T, A], opts ...QueuingStrategy) *Stream[A] {
	return op1(src, opts...)
}

// Pipe2 folds two operators left to right; only the tail operator receives
// the optional trailing queuing strategy.
func Pipe2[T, A, B any](src *Stream[T], op1 Operator[T, A], op2 Operator[A, B], opts ...QueuingStrategy) *Stream[B] {
	return op2(op1(src), opts...)
}

// Pipe3 folds three operators left to right.
func Pipe3[T, A, B, C any](src *Stream[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], opts ...QueuingStrategy) *Stream[C] {
	return op3(op2(op1(src)), opts...)
}

// Pipe4 folds four operators left to right.
func Pipe4[T, A, B, C, D any](src *Stream[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D], opts ...QueuingStrategy) *Stream[D] {
	return op4(op3(op2(op1(src))), opts...)
}

// Pipe5 folds five operators left to right.
func Pipe5[T, A, B, C, D, E any](src *Stream[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D], op5 Operator[D, E], opts ...QueuingStrategy) *Stream[E] {
	return op5(op4(op3(op2(op1(src)))), opts...)
}

// Pipe6 folds six operators left to right.
func Pipe6[T, A, B, C, D, E, F any](src *Stream[T], op1 Operator[T, A], op2 Operator[A, B], op3 Operator[B, C], op4 Operator[C, D], op5 Operator[D, E], op6 Operator[E, F], opts ...QueuingStrategy) *Stream[F] {
	return op6(op5(op4(op3(op2(op1(src))))), opts...)
}
