// Package fuzztests houses Go fuzz harnesses for the template front end
// (source -> lexer -> parser -> render). Its goal is to smoke test
// robustness and guard against panics or hangs on arbitrary inputs, and to
// check that compact rendering is idempotent on whatever the parser accepts.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер, парсер
// и рендер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/ast, internal/source, internal/lexer,
// internal/parser, internal/render, internal/testkit.
package fuzztests
