// Package errors はscitree全体のエラーハンドリングと警告システムを提供します。
// 入力エラー・設定エラー・縮退ラウンドの3分類を中心に、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("scitree-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	入力エラー
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータセットが渡された場合の原因です。
	ErrEmptyData = New("empty data")

	// ErrRowMismatch は特徴量とラベルの行数が一致しない場合の原因です。
	ErrRowMismatch = New("row count mismatch")

	// ErrColumnMismatch は予測時の列数が学習時と異なる場合の原因です。
	ErrColumnMismatch = New("column count mismatch")

	// ErrNonBinaryFeature は特徴量が {0,1} 以外の値を含む場合の原因です。
	ErrNonBinaryFeature = New("non-binary feature value")

	// ErrClassCount はクラス数がアルゴリズムの要求と合わない場合の原因です。
	ErrClassCount = New("unsupported number of classes")
)

// InputError は学習データそのものが不正な場合のエラーです。
// 呼び出し側で回復できないため、学習を始める前に返されます。
type InputError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scitree: %s: invalid input: %v: %s", e.Op, e.Cause, e.Reason)
	}
	return fmt.Sprintf("scitree: %s: invalid input: %s", e.Op, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "InputError")
	if e.Cause != nil {
		event.Str("cause", e.Cause.Error())
	}
}

// NewInputError は新しいInputErrorを作成し、スタックトレースを付与します。
func NewInputError(op string, cause error, format string, args ...interface{}) error {
	err := &InputError{Op: op, Reason: fmt.Sprintf(format, args...), Cause: cause}
	return errors.WithStack(err)
}

// NewDimensionError は行数・列数の不一致を InputError として作成します。
// axis 0 は行、1 は列を表します。
func NewDimensionError(op string, expected, got, axis int) error {
	if axis == 0 {
		return NewInputError(op, ErrRowMismatch, "expected %d rows, got %d", expected, got)
	}
	return NewInputError(op, ErrColumnMismatch, "expected %d columns, got %d", expected, got)
}

// ===========================================================================
//
//	設定エラー
//
// ===========================================================================

// ConfigError はハイパーパラメータの検証に失敗した場合のエラーです。
type ConfigError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scitree: invalid parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigError")
}

// NewConfigError は新しいConfigErrorを作成し、スタックトレースを付与します。
func NewConfigError(param, reason string, value interface{}) error {
	err := &ConfigError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	縮退ラウンド
//
// ===========================================================================

// DegenerateRoundError はブースティングのラウンドが有効な係数を作れなかった場合のエラーです。
// 回復可能で、それまでに完了したアンサンブルはそのまま利用できます。
type DegenerateRoundError struct {
	Mode      string
	Round     int
	Reason    string
	ErrorRate float64
}

func (e *DegenerateRoundError) Error() string {
	return fmt.Sprintf("scitree: %s: degenerate round %d: %s (error rate %.6g)", e.Mode, e.Round, e.Reason, e.ErrorRate)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateRoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("mode", e.Mode).
		Int("round", e.Round).
		Str("reason", e.Reason).
		Float64("error_rate", e.ErrorRate).
		Str("type", "DegenerateRoundError")
}

// NewDegenerateRoundError は新しいDegenerateRoundErrorを作成し、スタックトレースを付与します。
func NewDegenerateRoundError(mode string, round int, reason string, errorRate float64) error {
	err := &DegenerateRoundError{Mode: mode, Round: round, Reason: reason, ErrorRate: errorRate}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("scitree: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// IsInputError は err の連鎖に InputError が含まれるかを返します。
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// IsConfigError は err の連鎖に ConfigError が含まれるかを返します。
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsDegenerateRound は err の連鎖に DegenerateRoundError が含まれるかを返します。
func IsDegenerateRound(err error) bool {
	var target *DegenerateRoundError
	return errors.As(err, &target)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}
