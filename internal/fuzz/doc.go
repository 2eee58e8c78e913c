
// Package fuzztests houses Go fuzz harnesses for the input parsers and the
// whole check pipeline. Their goal is to guard against panics and broken
// parse contracts on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через instance/solution парсеры и
// driver.Check, проверяя инварианты вердикта.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/instance, internal/solution,
// internal/driver, internal/testkit.

package fuzztests
