// Package iocli отделяет интерактивные команды от os.Stdin и os.Stdout.
package iocli

import "io"

// Printer вывод результатов команд
type Printer interface {
	io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
}

// Prompter запрашивает строки у пользователя
type Prompter interface {
	ReadInput(prompt string) (string, error)
	// ReadPassword не показывает ввод, если stdin является терминалом
	ReadPassword(prompt string) (string, error)
}

// IO все, что нужно интерактивной команде
type IO interface {
	Printer
	Prompter
}

var _ IO = (*Stdio)(nil)
