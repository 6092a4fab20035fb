// Package detection finds rectangular parts in photographs.
//
// A part is any region whose outline simplifies to an approximately
// right-angled convex quadrilateral of moderate size: a chip on a tray, a
// tile on a board, a label on a shelf. The package sweeps a set of masks
// over the image, keeps every quadrilateral it can find, discards ones that
// mostly overlap an earlier find, and finally drops size outliers.
//
// # Pipeline
//
// Detector.Detect runs four stages over a blurred copy of the image:
//
//  1. Threshold scan: for each colour channel and each level 0, 10, …, 250
//     build a mask. Level 0 is edge mode (Canny then one dilation), every
//     other level is a strict binary threshold.
//  2. Classification: trace the borders of each mask, simplify them to
//     polygons and accept 4-vertex convex polygons with an area in
//     (1000, 40000] whose corners are all within ~5.7° of a right angle.
//  3. Deduplication: a candidate whose intersection-over-union with any
//     already accepted rectangle exceeds 0.5 is dropped.
//  4. Outlier filter: rectangles whose area is not below twice the mean
//     accepted area are removed.
//
// All numeric policies live in Params; DefaultParams returns the values
// above.
//
// # Scan Order
//
// Which of two overlapping rectangles survives depends on the order they
// are found. The canonical order is channel index, then threshold level
// ascending, then contour order as returned by the vision backend. The
// pure-Go backend returns contours in raster order of their first pixel, so
// results are fully reproducible. Parallel scans (Params.Workers > 1) build
// candidates concurrently but merge them in that same order.
//
// # Coordinate System
//
// Rectangles use the standard image convention: origin at the top-left,
// X rightward, Y downward. Width and Height count pixels inclusively, so a
// part covering columns 10 through 19 has X=10 and Width=10.
//
// # Errors
//
// Detect fails with ErrInvalidInput for nil or empty images and with an
// error matching ErrPrimitive (carrying a *PrimitiveError) when a vision
// call fails. An image with no parts is not an error: the result is empty.
package detection
