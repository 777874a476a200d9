package component

type Camera struct {
	TargetName string
	Zoom       float64
	Smoothness float64
	LookOffset float64
	LookSmooth float64
	LookX      float64

	ShakeFrames    int
	ShakeIntensity float64
	ShakeX         float64
	ShakeY         float64
}

var CameraComponent = NewComponent[Camera]()
