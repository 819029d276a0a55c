package render

import (
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
)

// Camera is the narrow ray-generation interface the render kernel needs: a
// position and orientation, with no exposure to the kinematics (orbiting,
// flying, key bindings) that drive them frame to frame. That controller
// logic is an out-of-scope collaborator per spec.md §1; this type only turns
// screen-space (x, y) into a world-space ray.
type Camera struct {
	Position geom.Vec3
	Rotation geom.Quaternion
}

// NewCamera builds a camera at position looking along +Y (with +X right and
// +Z up), rotated by rotation, matching the orientation convention of the teacher's
// scene/camera.go (Rotation applied to a fixed local basis).
func NewCamera(position geom.Vec3, rotation geom.Quaternion) Camera {
	return Camera{Position: position, Rotation: rotation}
}

// GetRay builds a packet ray for 8 screen-space (x, y) coordinates, where x
// and y are already scaled into roughly [-1, 1] by the pixel-coordinate
// generator (get_pixel_coords_16x4 scales both axes by 2/width, so y spans
// [-height/width, height/width]). The local
// forward/right/up basis is rotated into world space once per packet (it is
// the same for all 8 lanes; only x and y vary per lane), then the per-lane
// screen offsets are combined with it.
func (c Camera) GetRay(x, y lane.F32x8) geom.PacketRay {
	forward := c.Rotation.RotateVector(geom.Vec3{X: 0, Y: 1, Z: 0})
	right := c.Rotation.RotateVector(geom.Vec3{X: 1, Y: 0, Z: 0})
	up := c.Rotation.RotateVector(geom.Vec3{X: 0, Y: 0, Z: 1})

	pForward := geom.BroadcastVec3(forward)
	pRight := geom.BroadcastVec3(right)
	pUp := geom.BroadcastVec3(up)

	dir := pForward.Add(pRight.MulLane(x)).Add(pUp.MulLane(y)).Normalize()
	origin := geom.BroadcastVec3(c.Position)
	return geom.NewPacketRay(origin, dir)
}
