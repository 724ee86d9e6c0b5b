// Package scenario drives a wheel session through scripted lessons and quizzes.
//
// Both drivers work only through the session's public mutators and its
// completion event, via the [Controller] interface:
//
//   - [Quiz]: asks generated [Question]s, plays the learner's run and reveals
//     the verdict when the wheel stops
//   - [Tutorial]: walks a [Script] of narrated steps, loadable from YAML
//
// # Example
//
//	q := scenario.NewQuiz(session, scenario.NewGenerator(seed))
//	q.OnResult(func(r scenario.Result) { fmt.Println(r.Verdict()) })
//	question, _ := q.Next()
//	q.Submit(377)
package scenario
