package config

type WorkerKeyStruct struct {
	QuizPublishedQueue string
}

var WorkerKey = &WorkerKeyStruct{
	QuizPublishedQueue: "quiz_published_queue",
}
